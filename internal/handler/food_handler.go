package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"scaledown/internal/errors"
	"scaledown/internal/model"
	"scaledown/internal/service"
)

// FoodHandler serves the food item catalogue.
type FoodHandler struct {
	foodService service.FoodService
}

// NewFoodHandler creates a new food handler.
func NewFoodHandler(foodService service.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

// FoodRequest holds the nutrition facts of one serving.
type FoodRequest struct {
	Name        string   `json:"name" validate:"required"`
	ServingSize float64  `json:"servingSize" validate:"gt=0"`
	ServingUnit string   `json:"servingUnit" validate:"required"`
	Calories    *float64 `json:"calories" validate:"required,gte=0"`
	Fats        *float64 `json:"fats" validate:"required,gte=0"`
	Carbs       *float64 `json:"carbs" validate:"required,gte=0"`
	Proteins    *float64 `json:"proteins" validate:"required,gte=0"`
}

func (r *FoodRequest) toModel() *model.FoodItem {
	return &model.FoodItem{
		Name:        r.Name,
		ServingSize: r.ServingSize,
		ServingUnit: r.ServingUnit,
		Calories:    *r.Calories,
		Fats:        *r.Fats,
		Carbs:       *r.Carbs,
		Proteins:    *r.Proteins,
	}
}

// CreateFood godoc
// @Summary Create a food item
// @Tags food
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FoodRequest true "Food item"
// @Success 200 {object} model.FoodItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /food [post]
func (h *FoodHandler) CreateFood(c echo.Context) error {
	var req FoodRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	food, err := h.foodService.CreateFood(c.Request().Context(), req.toModel())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, food)
}

// GetFood godoc
// @Summary Get a food item
// @Tags food
// @Produce json
// @Param id path string true "Food item ID"
// @Success 200 {object} model.FoodItem
// @Failure 404 {object} errors.ErrorResponse
// @Router /food/{id} [get]
func (h *FoodHandler) GetFood(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	food, err := h.foodService.GetFood(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, food)
}

// SearchFoods godoc
// @Summary Search food items by name prefix
// @Tags food
// @Produce json
// @Param name query string false "Name prefix"
// @Param limit query int false "Maximum results, default 20, at most 100"
// @Success 200 {array} model.FoodItem
// @Router /food [get]
func (h *FoodHandler) SearchFoods(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "limit must be a non-negative integer",
				Code:  "INVALID_LIMIT",
			})
		}
		limit = n
	}

	foods, err := h.foodService.SearchFoods(c.Request().Context(), c.QueryParam("name"), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, foods)
}

// UpdateFood godoc
// @Summary Edit a food item
// @Tags food
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Food item ID"
// @Param request body FoodRequest true "Food item"
// @Success 200 {object} model.FoodItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /food/{id} [put]
func (h *FoodHandler) UpdateFood(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req FoodRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	food, err := h.foodService.UpdateFood(c.Request().Context(), id, req.toModel())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, food)
}

// DeleteFood godoc
// @Summary Delete a food item
// @Description Meals that used the item keep referencing it and leave it out of their totals.
// @Tags food
// @Produce json
// @Security BearerAuth
// @Param id path string true "Food item ID"
// @Success 200 {object} DetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /food/{id} [delete]
func (h *FoodHandler) DeleteFood(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.foodService.DeleteFood(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, DetailResponse{Detail: "Food deleted"})
}
