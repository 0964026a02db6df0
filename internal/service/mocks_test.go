package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"scaledown/internal/model"
)

// MockFoodItemRepository is a mock implementation of FoodItemRepository.
type MockFoodItemRepository struct {
	mock.Mock
}

func (m *MockFoodItemRepository) Create(ctx context.Context, food *model.FoodItem) error {
	args := m.Called(ctx, food)
	return args.Error(0)
}

func (m *MockFoodItemRepository) Update(ctx context.Context, food *model.FoodItem) error {
	args := m.Called(ctx, food)
	return args.Error(0)
}

func (m *MockFoodItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFoodItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FoodItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodItem), args.Error(1)
}

func (m *MockFoodItemRepository) FindByName(ctx context.Context, name string) (*model.FoodItem, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FoodItem), args.Error(1)
}

func (m *MockFoodItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.FoodItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FoodItem), args.Error(1)
}

func (m *MockFoodItemRepository) SearchByName(ctx context.Context, prefix string, limit int) ([]model.FoodItem, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FoodItem), args.Error(1)
}

func (m *MockFoodItemRepository) UpsertByName(ctx context.Context, food *model.FoodItem) error {
	args := m.Called(ctx, food)
	return args.Error(0)
}

// MockMealRepository is a mock implementation of MealRepository.
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Create(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) Replace(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMealRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealRepository) FindByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Meal, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

// MockRecentFoodsRepository is a mock implementation of RecentFoodsRepository.
type MockRecentFoodsRepository struct {
	mock.Mock
}

func (m *MockRecentFoodsRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*model.RecentFoods, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecentFoods), args.Error(1)
}

func (m *MockRecentFoodsRepository) Save(ctx context.Context, recent *model.RecentFoods) error {
	args := m.Called(ctx, recent)
	return args.Error(0)
}

func (m *MockRecentFoodsRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type recordingTracker struct {
	mu    sync.Mutex
	meals []*model.Meal
}

func (r *recordingTracker) Track(meal *model.Meal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meals = append(r.meals, meal)
}

type publishedEvent struct {
	userID    uuid.UUID
	eventType string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (r *recordingPublisher) Publish(userID uuid.UUID, eventType string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{userID: userID, eventType: eventType})
}
