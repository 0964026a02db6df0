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
	"scaledown/internal/repository"
)

// RecentFoodEntry is a recent foods entry with its food item resolved.
// FoodItem is nil when the item was deleted after it was used.
type RecentFoodEntry struct {
	FoodItemID uuid.UUID       `json:"foodItemId"`
	FoodItem   *model.FoodItem `json:"foodItem"`
	DateUsed   time.Time       `json:"dateUsed"`
}

// RecentFoodsView is the read model of a user's recent foods.
type RecentFoodsView struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user"`
	Foods     []RecentFoodEntry `json:"foods"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// RecentFoodsService reads recent foods lists.
type RecentFoodsService interface {
	GetRecentFoods(ctx context.Context, userID uuid.UUID) (*RecentFoodsView, error)
}

type recentFoodsService struct {
	recentRepo repository.RecentFoodsRepository
	foodRepo   repository.FoodItemRepository
}

// NewRecentFoodsService creates a new recent foods service.
func NewRecentFoodsService(recentRepo repository.RecentFoodsRepository, foodRepo repository.FoodItemRepository) RecentFoodsService {
	return &recentFoodsService{recentRepo: recentRepo, foodRepo: foodRepo}
}

func (s *recentFoodsService) GetRecentFoods(ctx context.Context, userID uuid.UUID) (*RecentFoodsView, error) {
	recent, err := s.recentRepo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrRecentFoodsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find recent foods: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(recent.Foods))
	for _, entry := range recent.Foods {
		ids = append(ids, entry.FoodItemID)
	}
	byID := make(map[uuid.UUID]*model.FoodItem, len(ids))
	if len(ids) > 0 {
		foods, err := s.foodRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("find food items: %w", err)
		}
		for i := range foods {
			byID[foods[i].ID] = &foods[i]
		}
	}

	view := &RecentFoodsView{
		ID:        recent.ID,
		UserID:    recent.UserID,
		Foods:     make([]RecentFoodEntry, 0, len(recent.Foods)),
		UpdatedAt: recent.UpdatedAt,
	}
	for _, entry := range recent.Foods {
		view.Foods = append(view.Foods, RecentFoodEntry{
			FoodItemID: entry.FoodItemID,
			FoodItem:   byID[entry.FoodItemID],
			DateUsed:   entry.DateUsed,
		})
	}
	return view, nil
}
