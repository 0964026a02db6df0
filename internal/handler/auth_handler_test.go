package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scaledown/internal/auth"
	"scaledown/internal/errors"
	"scaledown/internal/model"
	"scaledown/internal/service"
)

func TestAuthHandler_Register(t *testing.T) {
	e := newEcho()
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)
	user := &model.User{ID: uuid.New(), UserName: "matt"}
	svc.On("Register", mock.Anything, "matt", "secret1").Return(user, nil)

	c, rec := newRequest(e, http.MethodPost, "/api/user", `{"userName":"matt","password":"secret1"}`, nil)
	require.NoError(t, h.Register(c))

	assert.JSONEq(t, `{"id":"`+user.ID.String()+`","userName":"matt"}`, rec.Body.String())
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(new(MockAuthService))

	c, _ := newRequest(e, http.MethodPost, "/api/user", `{"userName":"matt","password":"abc"}`, nil)

	assertHTTPError(t, h.Register(c), http.StatusBadRequest, "VALIDATION_FAILED")
}

func TestAuthHandler_Register_Taken(t *testing.T) {
	e := newEcho()
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)
	svc.On("Register", mock.Anything, "matt", "secret1").Return(nil, errors.ErrUserNameTaken)

	c, _ := newRequest(e, http.MethodPost, "/api/user", `{"userName":"matt","password":"secret1"}`, nil)

	assertHTTPError(t, h.Register(c), http.StatusConflict, "USERNAME_TAKEN")
}

func TestAuthHandler_Token(t *testing.T) {
	e := newEcho()
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)
	svc.On("Login", mock.Anything, "matt", "secret1").Return(&service.Token{AccessToken: "abc", TokenType: "Bearer", ExpiresIn: 60}, nil)

	c, rec := newRequest(e, http.MethodPost, "/api/user/token", `{"userName":"matt","password":"secret1"}`, nil)
	require.NoError(t, h.Token(c))

	assert.JSONEq(t, `{"token":"abc","token_type":"Bearer","expires_in":60}`, rec.Body.String())
}

func TestAuthHandler_Token_IncorrectPassword(t *testing.T) {
	e := newEcho()
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)
	svc.On("Login", mock.Anything, "matt", "wrong-password").Return(nil, errors.ErrIncorrectPassword)

	c, _ := newRequest(e, http.MethodPost, "/api/user/token", `{"userName":"matt","password":"wrong-password"}`, nil)

	assertHTTPError(t, h.Token(c), http.StatusForbidden, "INCORRECT_PASSWORD")
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	userID := uuid.New()
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(c *auth.Claims) bool {
		return c.ID == "token-id" && c.UserID == userID.String()
	})).Return(nil)

	c, rec := newRequest(e, http.MethodPost, "/api/user/logout", "", &userID)
	require.NoError(t, h.Logout(c))

	assert.JSONEq(t, `{"detail":"Logged out"}`, rec.Body.String())
	svc.AssertExpectations(t)
}
