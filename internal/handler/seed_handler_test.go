package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scaledown/internal/model"
	"scaledown/internal/seed"
)

func TestSeedHandler_SeedFoodsGoesThroughFoodService(t *testing.T) {
	e := newEcho()
	userID := uuid.New()
	svc := new(MockFoodService)
	h := NewSeedHandler(svc)
	svc.On("UpsertFood", mock.Anything, mock.AnythingOfType("*model.FoodItem")).
		Return(&model.FoodItem{ID: uuid.New()}, nil)

	c, rec := newRequest(e, http.MethodPost, "/api/seed/foods", "", &userID)
	require.NoError(t, h.SeedFoods(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"skipped":0`)
	svc.AssertNumberOfCalls(t, "UpsertFood", len(seed.SampleFoods))
}

func TestSeedHandler_SeedFoodsError(t *testing.T) {
	e := newEcho()
	userID := uuid.New()
	svc := new(MockFoodService)
	h := NewSeedHandler(svc)
	svc.On("UpsertFood", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	c, _ := newRequest(e, http.MethodPost, "/api/seed/foods", "", &userID)

	assertHTTPError(t, h.SeedFoods(c), http.StatusInternalServerError, "SEED_FAILED")
}
