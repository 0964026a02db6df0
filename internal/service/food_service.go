package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scaledown/internal/cache"
	domainerrors "scaledown/internal/errors"
	"scaledown/internal/model"
	"scaledown/internal/repository"
)

const (
	defaultFoodCacheTTL = 10 * time.Minute
	defaultSearchLimit  = 20
	maxSearchLimit      = 100
)

// FoodService manages the shared food item catalogue.
type FoodService interface {
	CreateFood(ctx context.Context, food *model.FoodItem) (*model.FoodItem, error)
	GetFood(ctx context.Context, id uuid.UUID) (*model.FoodItem, error)
	UpdateFood(ctx context.Context, id uuid.UUID, input *model.FoodItem) (*model.FoodItem, error)
	DeleteFood(ctx context.Context, id uuid.UUID) error
	SearchFoods(ctx context.Context, namePrefix string, limit int) ([]model.FoodItem, error)
	UpsertFood(ctx context.Context, food *model.FoodItem) (*model.FoodItem, error)
}

// FoodCache is the part of cache.Client the food service uses.
type FoodCache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type foodService struct {
	repo     repository.FoodItemRepository
	cache    FoodCache
	cacheTTL time.Duration
}

// NewFoodService creates a food service. Single food reads are cached for
// cacheTTL. A nil cache disables caching.
func NewFoodService(repo repository.FoodItemRepository, foodCache FoodCache, cacheTTL time.Duration) FoodService {
	if cacheTTL <= 0 {
		cacheTTL = defaultFoodCacheTTL
	}
	if foodCache == nil {
		foodCache = (*cache.Client)(nil)
	}
	return &foodService{repo: repo, cache: foodCache, cacheTTL: cacheTTL}
}

func (s *foodService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("food:%s", id)
}

// CreateFood stores a new food item. Names are unique.
func (s *foodService) CreateFood(ctx context.Context, food *model.FoodItem) (*model.FoodItem, error) {
	if err := s.ensureNameFree(ctx, food.Name); err != nil {
		return nil, err
	}

	food.ID = uuid.Nil
	if err := s.repo.Create(ctx, food); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerrors.ErrFoodNameTaken
		}
		return nil, fmt.Errorf("create food: %w", err)
	}
	return food, nil
}

// GetFood returns a food item, from cache when possible.
func (s *foodService) GetFood(ctx context.Context, id uuid.UUID) (*model.FoodItem, error) {
	var cached model.FoodItem
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	food, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrFoodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find food: %w", err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), food, s.cacheTTL)
	return food, nil
}

// UpdateFood overwrites every nutrition field of a food item. Meals that
// reference it pick up the new values the next time they are read.
func (s *foodService) UpdateFood(ctx context.Context, id uuid.UUID, input *model.FoodItem) (*model.FoodItem, error) {
	food, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrFoodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find food: %w", err)
	}

	if food.Name != input.Name {
		if err := s.ensureNameFree(ctx, input.Name); err != nil {
			return nil, err
		}
	}

	food.Name = input.Name
	food.ServingSize = input.ServingSize
	food.ServingUnit = input.ServingUnit
	food.Calories = input.Calories
	food.Fats = input.Fats
	food.Carbs = input.Carbs
	food.Proteins = input.Proteins

	if err := s.repo.Update(ctx, food); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerrors.ErrFoodNameTaken
		}
		return nil, fmt.Errorf("update food: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return food, nil
}

// DeleteFood removes a food item. Meals keep their reference to it.
func (s *foodService) DeleteFood(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrFoodNotFound
		}
		return fmt.Errorf("delete food: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *foodService) SearchFoods(ctx context.Context, namePrefix string, limit int) ([]model.FoodItem, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	foods, err := s.repo.SearchByName(ctx, strings.TrimSpace(namePrefix), limit)
	if err != nil {
		return nil, fmt.Errorf("search foods: %w", err)
	}
	return foods, nil
}

// UpsertFood inserts food, or overwrites the facts of the food item that has
// the same name, and drops its cached copy.
func (s *foodService) UpsertFood(ctx context.Context, food *model.FoodItem) (*model.FoodItem, error) {
	if err := s.repo.UpsertByName(ctx, food); err != nil {
		return nil, fmt.Errorf("upsert food: %w", err)
	}
	// on conflict the generated id is not the stored one
	stored, err := s.repo.FindByName(ctx, food.Name)
	if err != nil {
		return nil, fmt.Errorf("reload food: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(stored.ID))
	return stored, nil
}

func (s *foodService) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return domainerrors.ErrFoodNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check food name: %w", err)
	}
	return nil
}
