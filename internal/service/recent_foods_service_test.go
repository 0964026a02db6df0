package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domainerrors "scaledown/internal/errors"
	"scaledown/internal/model"
)

func TestRecentFoodsService_GetRecentFoods(t *testing.T) {
	recentRepo := new(MockRecentFoodsRepository)
	foodRepo := new(MockFoodItemRepository)
	userID := uuid.New()
	deleted := uuid.New()
	used := time.Date(2021, 10, 12, 18, 0, 0, 0, time.UTC)

	recentRepo.On("FindByUser", mock.Anything, userID).Return(&model.RecentFoods{
		ID:     uuid.New(),
		UserID: userID,
		Foods: []model.RecentFood{
			{FoodItemID: tomato.ID, DateUsed: used},
			{FoodItemID: deleted, DateUsed: used},
		},
	}, nil)
	foodRepo.On("FindByIDs", mock.Anything, []uuid.UUID{tomato.ID, deleted}).Return([]model.FoodItem{*tomato}, nil)

	view, err := NewRecentFoodsService(recentRepo, foodRepo).GetRecentFoods(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, view.Foods, 2)
	assert.Equal(t, "Tomato", view.Foods[0].FoodItem.Name)
	assert.Equal(t, used, view.Foods[0].DateUsed)
	assert.Nil(t, view.Foods[1].FoodItem)
	assert.Equal(t, deleted, view.Foods[1].FoodItemID)
}

func TestRecentFoodsService_NeverCreatedAMeal(t *testing.T) {
	recentRepo := new(MockRecentFoodsRepository)
	userID := uuid.New()
	recentRepo.On("FindByUser", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

	_, err := NewRecentFoodsService(recentRepo, new(MockFoodItemRepository)).GetRecentFoods(context.Background(), userID)

	assert.ErrorIs(t, err, domainerrors.ErrRecentFoodsNotFound)
}
