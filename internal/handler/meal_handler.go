package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"scaledown/internal/auth"
	"scaledown/internal/model"
	"scaledown/internal/nutrition"
	"scaledown/internal/service"
)

// MealHandler serves the current user's meals.
type MealHandler struct {
	mealService service.MealService
	loc         *time.Location
	now         func() time.Time
}

// NewMealHandler creates a meal handler. Date parameters are read in loc.
func NewMealHandler(mealService service.MealService, loc *time.Location) *MealHandler {
	return &MealHandler{mealService: mealService, loc: loc, now: time.Now}
}

// MealFoodRequest is one food list entry.
type MealFoodRequest struct {
	FoodItem    string  `json:"foodItem" validate:"required,uuid"`
	ServingSize float64 `json:"servingSize" validate:"gt=0"`
	ServingUnit string  `json:"servingUnit" validate:"required"`
}

// MealRequest creates or replaces a meal. Date defaults to now on create and
// to the stored date on edit.
type MealRequest struct {
	Name     string            `json:"name" validate:"required"`
	Date     *time.Time        `json:"date"`
	FoodList []MealFoodRequest `json:"foodList" validate:"required,min=1,dive"`
}

func (r *MealRequest) toModel(userID uuid.UUID) *model.Meal {
	meal := &model.Meal{
		UserID:   userID,
		Name:     r.Name,
		FoodList: make([]model.MealFood, 0, len(r.FoodList)),
	}
	if r.Date != nil {
		meal.Date = *r.Date
	}
	for _, f := range r.FoodList {
		meal.FoodList = append(meal.FoodList, model.MealFood{
			FoodItemID:  uuid.MustParse(f.FoodItem),
			ServingSize: f.ServingSize,
			ServingUnit: f.ServingUnit,
		})
	}
	return meal
}

// MealResponse is a meal with its derived totals.
type MealResponse struct {
	*model.Meal
	Totals nutrition.Totals `json:"totals"`
}

func newMealResponse(meal *model.Meal) MealResponse {
	return MealResponse{Meal: meal, Totals: meal.Totals()}
}

// CreateMeal godoc
// @Summary Create a meal
// @Tags meal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MealRequest true "Meal"
// @Success 200 {object} MealResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /meal [post]
func (h *MealHandler) CreateMeal(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	var req MealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	meal, err := h.mealService.CreateMeal(c.Request().Context(), req.toModel(userID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newMealResponse(meal))
}

// ListMeals godoc
// @Summary List the current user's meals
// @Description Takes the same date parameters as /user/totals.
// @Tags meal
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day, YYYY-MM-DD"
// @Param startDate query string false "First day, YYYY-MM-DD"
// @Param endDate query string false "Day after the last, YYYY-MM-DD"
// @Success 200 {array} MealResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /meal [get]
func (h *MealHandler) ListMeals(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	_, window, err := resolveWindow(c, h.now(), h.loc)
	if err != nil {
		return err
	}

	meals, err := h.mealService.ListMeals(c.Request().Context(), userID, window)
	if err != nil {
		return fail(c, err)
	}
	out := make([]MealResponse, 0, len(meals))
	for i := range meals {
		out = append(out, newMealResponse(&meals[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetMeal godoc
// @Summary Get a meal
// @Tags meal
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 200 {object} MealResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /meal/{id} [get]
func (h *MealHandler) GetMeal(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	meal, err := h.mealService.GetMeal(c.Request().Context(), userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newMealResponse(meal))
}

// UpdateMeal godoc
// @Summary Edit a meal
// @Tags meal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Param request body MealRequest true "Meal"
// @Success 200 {object} MealResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /meal/{id} [put]
func (h *MealHandler) UpdateMeal(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req MealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := req.toModel(userID)
	input.ID = id
	meal, err := h.mealService.UpdateMeal(c.Request().Context(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newMealResponse(meal))
}

// DeleteMeal godoc
// @Summary Delete a meal
// @Tags meal
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 200 {object} DetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /meal/{id} [delete]
func (h *MealHandler) DeleteMeal(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.mealService.DeleteMeal(c.Request().Context(), userID, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, DetailResponse{Detail: "Meal deleted"})
}
