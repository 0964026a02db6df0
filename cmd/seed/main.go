package main

import (
	"context"
	"flag"
	"os"

	"scaledown/internal/cache"
	"scaledown/internal/config"
	"scaledown/internal/db"
	"scaledown/internal/logging"
	"scaledown/internal/repository"
	"scaledown/internal/seed"
	"scaledown/internal/service"
)

func main() {
	source := flag.String("source", os.Getenv("SEED_SOURCE"), "JSON file path or http(s) URL with food items; empty loads the built-in samples")
	flag.Parse()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)
	logger.Info("starting seed script")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	logger.Info("connected to database", "driver", cfg.DBDriver)

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	foods, err := seed.Load(ctx, *source)
	if err != nil {
		logger.Error("failed to load foods", "source", *source, "err", err)
		os.Exit(1)
	}
	logger.Info("loaded foods", "count", len(foods), "source", *source)

	// the server may have cached food items that this run overwrites
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, cached food items are not invalidated", "addr", cfg.RedisAddr, "err", err)
	}
	foodService := service.NewFoodService(repository.NewFoodItemRepository(gormDB), cacheClient, cfg.FoodCacheTTL)

	res, err := seed.Foods(ctx, foodService, foods)
	if err != nil {
		logger.Error("failed to seed foods", "err", err)
		os.Exit(1)
	}

	logger.Info("seed completed", "upserted", res.Upserted, "skipped", res.Skipped)
}
