package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"scaledown/internal/auth"
	"scaledown/internal/handler"
)

// Handlers groups every HTTP handler the router serves.
type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
	Food *handler.FoodHandler
	Meal *handler.MealHandler
	Seed *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/user", h.Auth.Register)
	api.POST("/user/token", h.Auth.Token)
	api.GET("/food", h.Food.SearchFoods)
	api.GET("/food/:id", h.Food.GetFood)

	// Secured routes. Browsers cannot set headers on websocket upgrades, so
	// the token may also arrive as ?token=.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:    jwtService.Secret(),
			NewClaimsFunc: auth.NewClaims,
			ContextKey:    auth.TokenContextKey,
			TokenLookup:   "header:" + echo.HeaderAuthorization + ":Bearer ,query:token",
		}),
		auth.RequireActiveToken(tokenStore),
	)

	// User routes
	secured.GET("/user", h.User.GetUser)
	secured.PUT("/user", h.User.UpdateUser)
	secured.DELETE("/user", h.User.DeleteUser)
	secured.POST("/user/logout", h.Auth.Logout)
	secured.GET("/user/totals", h.User.GetTotals)
	secured.GET("/user/recent-foods", h.User.GetRecentFoods)
	secured.GET("/user/events", h.User.Events)

	// Food routes
	secured.POST("/food", h.Food.CreateFood)
	secured.PUT("/food/:id", h.Food.UpdateFood)
	secured.DELETE("/food/:id", h.Food.DeleteFood)

	// Meal routes
	secured.POST("/meal", h.Meal.CreateMeal)
	secured.GET("/meal", h.Meal.ListMeals)
	secured.GET("/meal/:id", h.Meal.GetMeal)
	secured.PUT("/meal/:id", h.Meal.UpdateMeal)
	secured.DELETE("/meal/:id", h.Meal.DeleteMeal)

	secured.POST("/seed/foods", h.Seed.SeedFoods)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			slog.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the validator used for request bodies.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
