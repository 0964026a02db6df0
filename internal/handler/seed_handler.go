package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scaledown/internal/errors"
	"scaledown/internal/seed"
	"scaledown/internal/service"
)

// SeedHandler loads the sample food catalogue.
type SeedHandler struct {
	foodService service.FoodService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(foodService service.FoodService) *SeedHandler {
	return &SeedHandler{foodService: foodService}
}

// SeedFoodsResponse represents the seed response.
type SeedFoodsResponse struct {
	Message string `json:"message"`
	seed.Result
}

// SeedFoods godoc
// @Summary Load the sample food items
// @Description Upserts the built-in sample foods by name.
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SeedFoodsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/foods [post]
func (h *SeedHandler) SeedFoods(c echo.Context) error {
	res, err := seed.Foods(c.Request().Context(), h.foodService, seed.SampleFoods)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to seed foods",
			Code:  "SEED_FAILED",
		})
	}

	return c.JSON(http.StatusOK, SeedFoodsResponse{
		Message: "Foods seeded successfully",
		Result:  res,
	})
}
