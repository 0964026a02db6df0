package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainerrors "scaledown/internal/errors"
	"scaledown/internal/model"
	"scaledown/internal/nutrition"
	"scaledown/internal/repository"
	"scaledown/internal/timeframe"
)

// Event types published to a user's realtime stream.
const (
	EventMealCreated = "meal.created"
	EventMealUpdated = "meal.updated"
	EventMealDeleted = "meal.deleted"
)

// RecentFoodsTracker receives meals that were just written.
type RecentFoodsTracker interface {
	Track(meal *model.Meal)
}

// EventPublisher pushes events to a user's connected clients.
type EventPublisher interface {
	Publish(userID uuid.UUID, eventType string, data any)
}

// UserTotals is the sum of the totals of a user's meals in a window.
type UserTotals struct {
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	MealCount int              `json:"mealCount"`
	Totals    nutrition.Totals `json:"totals"`
}

// MealService manages meals and aggregates their nutrition totals.
type MealService interface {
	CreateMeal(ctx context.Context, meal *model.Meal) (*model.Meal, error)
	GetMeal(ctx context.Context, userID, id uuid.UUID) (*model.Meal, error)
	UpdateMeal(ctx context.Context, meal *model.Meal) (*model.Meal, error)
	DeleteMeal(ctx context.Context, userID, id uuid.UUID) error
	ListMeals(ctx context.Context, userID uuid.UUID, w timeframe.Window) ([]model.Meal, error)
	UserTotals(ctx context.Context, userID uuid.UUID, start, end time.Time) (*UserTotals, error)
}

type mealService struct {
	mealRepo repository.MealRepository
	foodRepo repository.FoodItemRepository
	tracker  RecentFoodsTracker
	events   EventPublisher
	now      func() time.Time
}

// NewMealService creates a meal service. tracker and events may be nil.
func NewMealService(
	mealRepo repository.MealRepository,
	foodRepo repository.FoodItemRepository,
	tracker RecentFoodsTracker,
	events EventPublisher,
) MealService {
	return &mealService{
		mealRepo: mealRepo,
		foodRepo: foodRepo,
		tracker:  tracker,
		events:   events,
		now:      time.Now,
	}
}

// CreateMeal stores a meal for meal.UserID and schedules the recent foods
// update. The returned meal has its food items resolved.
func (s *mealService) CreateMeal(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	if err := s.checkFoodItems(ctx, meal); err != nil {
		return nil, err
	}

	meal.ID = uuid.Nil
	if meal.Date.IsZero() {
		meal.Date = s.now()
	}
	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}

	stored, err := s.mealRepo.FindByID(ctx, meal.ID)
	if err != nil {
		return nil, fmt.Errorf("reload meal: %w", err)
	}

	s.afterWrite(stored, EventMealCreated)
	return stored, nil
}

// GetMeal returns the meal with its food items resolved. Meals of other
// users are reported as not found.
func (s *mealService) GetMeal(ctx context.Context, userID, id uuid.UUID) (*model.Meal, error) {
	meal, err := s.mealRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrMealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find meal: %w", err)
	}
	if meal.UserID != userID {
		return nil, domainerrors.ErrMealNotFound
	}
	return meal, nil
}

// UpdateMeal replaces the name, date and food list of an existing meal. A
// zero date keeps the stored one.
func (s *mealService) UpdateMeal(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	current, err := s.GetMeal(ctx, meal.UserID, meal.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkFoodItems(ctx, meal); err != nil {
		return nil, err
	}

	if meal.Date.IsZero() {
		meal.Date = current.Date
	}
	if err := s.mealRepo.Replace(ctx, meal); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrMealNotFound
		}
		return nil, fmt.Errorf("update meal: %w", err)
	}

	stored, err := s.mealRepo.FindByID(ctx, meal.ID)
	if err != nil {
		return nil, fmt.Errorf("reload meal: %w", err)
	}

	s.afterWrite(stored, EventMealUpdated)
	return stored, nil
}

// DeleteMeal removes a meal. Recent foods are left as they are.
func (s *mealService) DeleteMeal(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetMeal(ctx, userID, id); err != nil {
		return err
	}
	if err := s.mealRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrMealNotFound
		}
		return fmt.Errorf("delete meal: %w", err)
	}

	if s.events != nil {
		s.events.Publish(userID, EventMealDeleted, map[string]uuid.UUID{"id": id})
	}
	return nil
}

func (s *mealService) ListMeals(ctx context.Context, userID uuid.UUID, w timeframe.Window) ([]model.Meal, error) {
	meals, err := s.mealRepo.FindByUserInRange(ctx, userID, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

// UserTotals sums the totals of the user's meals dated in [start, end).
func (s *mealService) UserTotals(ctx context.Context, userID uuid.UUID, start, end time.Time) (*UserTotals, error) {
	meals, err := s.mealRepo.FindByUserInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find meals: %w", err)
	}

	perMeal := make([]nutrition.Totals, 0, len(meals))
	for i := range meals {
		perMeal = append(perMeal, meals[i].Totals())
	}

	return &UserTotals{
		Start:     start,
		End:       end,
		MealCount: len(meals),
		Totals:    nutrition.Sum(perMeal...),
	}, nil
}

// checkFoodItems rejects food lists that reference food items which do not
// exist at write time.
func (s *mealService) checkFoodItems(ctx context.Context, meal *model.Meal) error {
	if len(meal.FoodList) == 0 {
		return nil
	}

	unique := make(map[uuid.UUID]struct{}, len(meal.FoodList))
	ids := make([]uuid.UUID, 0, len(meal.FoodList))
	for _, id := range meal.FoodItemIDs() {
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		ids = append(ids, id)
	}

	found, err := s.foodRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("find food items: %w", err)
	}
	if len(found) != len(ids) {
		return domainerrors.ErrUnknownFoodItem
	}
	return nil
}

func (s *mealService) afterWrite(meal *model.Meal, eventType string) {
	if s.tracker != nil {
		s.tracker.Track(meal)
	}
	if s.events != nil {
		s.events.Publish(meal.UserID, eventType, meal)
	}
}
