package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"scaledown/internal/auth"
	"scaledown/internal/nutrition"
	"scaledown/internal/realtime"
	"scaledown/internal/service"
	"scaledown/internal/timeframe"
)

// UserHandler serves the authenticated user's account, totals, recent foods
// and event stream.
type UserHandler struct {
	userService   service.UserService
	mealService   service.MealService
	recentService service.RecentFoodsService
	hub           *realtime.Hub
	upgrader      websocket.Upgrader
	loc           *time.Location
	now           func() time.Time
}

// NewUserHandler creates a user handler. Date parameters are read in loc.
func NewUserHandler(
	userService service.UserService,
	mealService service.MealService,
	recentService service.RecentFoodsService,
	hub *realtime.Hub,
	loc *time.Location,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		mealService:   mealService,
		recentService: recentService,
		hub:           hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		loc: loc,
		now: time.Now,
	}
}

// UserInfoResponse describes a user.
type UserInfoResponse struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// TotalsResponse echoes the date parameters next to the window they selected.
type TotalsResponse struct {
	User      uuid.UUID        `json:"user"`
	Date      string           `json:"date,omitempty"`
	StartDate string           `json:"startDate,omitempty"`
	EndDate   string           `json:"endDate,omitempty"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	MealCount int              `json:"mealCount"`
	Totals    nutrition.Totals `json:"totals"`
}

// GetUser godoc
// @Summary Get the current user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserInfoResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, UserInfoResponse{UserID: user.ID.String(), UserName: user.UserName})
}

// UpdateUser godoc
// @Summary Rename the current user
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CredentialsRequest true "New user name and current password"
// @Success 200 {object} UserInfoResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.RenameUser(c.Request().Context(), userID, req.UserName, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, UserInfoResponse{UserID: user.ID.String(), UserName: user.UserName})
}

// DeleteUser godoc
// @Summary Delete the current user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.userService.DeleteUser(c.Request().Context(), userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, DetailResponse{Detail: "User deleted"})
}

// GetTotals godoc
// @Summary Nutrition totals of the current user
// @Description Sends just "date" for one day, or both "startDate" and "endDate" for a range that excludes endDate. Defaults to today.
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day, YYYY-MM-DD"
// @Param startDate query string false "First day, YYYY-MM-DD"
// @Param endDate query string false "Day after the last, YYYY-MM-DD"
// @Success 200 {object} TotalsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/totals [get]
func (h *UserHandler) GetTotals(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	params, window, err := resolveWindow(c, h.now(), h.loc)
	if err != nil {
		return err
	}

	totals, err := h.mealService.UserTotals(c.Request().Context(), userID, window.Start, window.End)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, TotalsResponse{
		User:      userID,
		Date:      params.Date,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Start:     totals.Start,
		End:       totals.End,
		MealCount: totals.MealCount,
		Totals:    totals.Totals,
	})
}

// GetRecentFoods godoc
// @Summary Recently used food items of the current user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RecentFoodsView
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/recent-foods [get]
func (h *UserHandler) GetRecentFoods(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	view, err := h.recentService.GetRecentFoods(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Events godoc
// @Summary Websocket stream of the current user's meal and recent foods events
// @Tags user
// @Security BearerAuth
// @Param token query string false "Access token, for clients that cannot set headers"
// @Success 101
// @Router /user/events [get]
func (h *UserHandler) Events(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, err)
	}
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already wrote the error response
		return nil
	}
	h.hub.Serve(userID, conn)
	return nil
}

// resolveWindow binds the date query parameters and resolves them in loc.
func resolveWindow(c echo.Context, now time.Time, loc *time.Location) (timeframe.Params, timeframe.Window, error) {
	var params timeframe.Params
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &params); err != nil {
		return params, timeframe.Window{}, fail(c, err)
	}
	window, err := timeframe.Resolve(params, now, loc)
	if err != nil {
		return params, timeframe.Window{}, fail(c, err)
	}
	return params, window, nil
}
