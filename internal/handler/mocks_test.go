package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"scaledown/internal/auth"
	"scaledown/internal/model"
	"scaledown/internal/service"
	"scaledown/internal/timeframe"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

// newRequest builds an echo context. A non-nil userID marks the request as
// authenticated the way the echo-jwt middleware would.
func newRequest(e *echo.Echo, method, target, body string, userID *uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set(auth.TokenContextKey, &jwt.Token{Claims: &auth.Claims{
			UserID:           userID.String(),
			UserName:         "matt",
			RegisteredClaims: jwt.RegisteredClaims{ID: "token-id"},
		}})
	}
	return c, rec
}

// MockMealService is a mock implementation of service.MealService.
type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) CreateMeal(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	args := m.Called(ctx, meal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) GetMeal(ctx context.Context, userID, id uuid.UUID) (*model.Meal, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) UpdateMeal(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	args := m.Called(ctx, meal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) DeleteMeal(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockMealService) ListMeals(ctx context.Context, userID uuid.UUID, w timeframe.Window) ([]model.Meal, error) {
	args := m.Called(ctx, userID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

func (m *MockMealService) UserTotals(ctx context.Context, userID uuid.UUID, start, end time.Time) (*service.UserTotals, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserTotals), args.Error(1)
}

// MockFoodService is a mock implementation of service.FoodService.
type MockFoodService struct {
	mock.Mock
}

func (m *MockFoodService) CreateFood(ctx context.Context, food *model.FoodItem) (*model.FoodItem, error) {
	args := m.Called(ctx, food)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodItem), args.Error(1)
}

func (m *MockFoodService) GetFood(ctx context.Context, id uuid.UUID) (*model.FoodItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodItem), args.Error(1)
}

func (m *MockFoodService) UpdateFood(ctx context.Context, id uuid.UUID, input *model.FoodItem) (*model.FoodItem, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodItem), args.Error(1)
}

func (m *MockFoodService) DeleteFood(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFoodService) SearchFoods(ctx context.Context, namePrefix string, limit int) ([]model.FoodItem, error) {
	args := m.Called(ctx, namePrefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FoodItem), args.Error(1)
}

func (m *MockFoodService) UpsertFood(ctx context.Context, food *model.FoodItem) (*model.FoodItem, error) {
	args := m.Called(ctx, food)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodItem), args.Error(1)
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, userName, password string) (*model.User, error) {
	args := m.Called(ctx, userName, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, userName, password string) (*service.Token, error) {
	args := m.Called(ctx, userName, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Token), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}
