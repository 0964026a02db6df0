package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scaledown/internal/auth"
	"scaledown/internal/service"
)

// AuthHandler handles registration and token endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CredentialsRequest is the body of register and token requests.
type CredentialsRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterResponse is returned after a user was created.
type RegisterResponse struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
}

// Register godoc
// @Summary Register a new user
// @Tags user
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Registration data"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.UserName, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, RegisterResponse{ID: user.ID.String(), UserName: user.UserName})
}

// Token godoc
// @Summary Issue an access token
// @Tags user
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} service.Token
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.UserName, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, token)
}

// Logout godoc
// @Summary Revoke the current access token
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DetailResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := auth.ClaimsFrom(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, DetailResponse{Detail: "Logged out"})
}
