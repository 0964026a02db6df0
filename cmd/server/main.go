package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	_ "scaledown/docs" // swagger docs

	"scaledown/internal/auth"
	"scaledown/internal/cache"
	"scaledown/internal/config"
	"scaledown/internal/db"
	"scaledown/internal/handler"
	"scaledown/internal/logging"
	"scaledown/internal/model"
	"scaledown/internal/realtime"
	"scaledown/internal/recentfoods"
	"scaledown/internal/repository"
	"scaledown/internal/router"
	"scaledown/internal/service"
)

// @title ScaleDown Nutrition API
// @version 1.0
// @description Nutrition tracking API with food items, meals, daily totals and recent foods.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("database init", "err", err)
		os.Exit(1)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Error("reset database", "err", err)
			os.Exit(1)
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migrate database", "err", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, running without cache", "addr", cfg.RedisAddr, "err", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	foodRepo := repository.NewFoodItemRepository(gormDB)
	mealRepo := repository.NewMealRepository(gormDB)
	recentRepo := repository.NewRecentFoodsRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	hub := realtime.NewHub(logger)

	policy, err := recentfoods.ParsePolicy(cfg.RecentFoodsPolicy)
	if err != nil {
		logger.Error("invalid RECENT_FOODS_POLICY", "err", err)
		os.Exit(1)
	}
	tracker := recentfoods.NewTracker(recentRepo, recentfoods.Options{
		Policy:    policy,
		Workers:   cfg.TrackerWorkers,
		QueueSize: cfg.TrackerQueueSize,
		Logger:    logger,
		Notify: func(r *model.RecentFoods) {
			hub.Publish(r.UserID, realtime.EventRecentFoodsUpdated, r)
		},
	})
	tracker.Start(ctx)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, recentRepo, cacheClient)
	foodService := service.NewFoodService(foodRepo, cacheClient, cfg.FoodCacheTTL)
	mealService := service.NewMealService(mealRepo, foodRepo, tracker, hub)
	recentService := service.NewRecentFoodsService(recentRepo, foodRepo)

	loc := cfg.Location()

	e := echo.New()
	e.HideBanner = true

	router.Register(e, jwtService, tokenStore, router.Handlers{
		Auth: handler.NewAuthHandler(authService),
		User: handler.NewUserHandler(userService, mealService, recentService, hub, loc),
		Food: handler.NewFoodHandler(foodService),
		Meal: handler.NewMealHandler(mealService, loc),
		Seed: handler.NewSeedHandler(foodService),
	})

	logger.Info("swagger documentation available", "url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "addr", addr, "db", cfg.DBDriver, "tz", loc.String())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	// Handlers are drained, so no more meals can be tracked.
	tracker.Stop()
	hub.Close()
}

func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
