package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"scaledown/internal/errors"
)

// TokenContextKey is where the echo-jwt middleware stores the parsed token.
const TokenContextKey = "user"

// NewClaims is the echo-jwt claims factory.
func NewClaims(echo.Context) jwt.Claims {
	return new(Claims)
}

// ClaimsFrom returns the claims of the verified token on the request.
func ClaimsFrom(c echo.Context) (*Claims, error) {
	token, ok := c.Get(TokenContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}

// UserID returns the authenticated user's id.
func UserID(c echo.Context) (uuid.UUID, error) {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidToken
	}
	return id, nil
}

// RequireActiveToken rejects tokens that were revoked by logout. It must run
// after the echo-jwt middleware.
func RequireActiveToken(store TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := ClaimsFrom(c)
			if err != nil {
				return unauthorized(err)
			}
			if claims.ID != "" {
				revoked, _ := store.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
				if revoked {
					return unauthorized(errors.ErrTokenRevoked)
				}
			}
			return next(c)
		}
	}
}

func unauthorized(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(http.StatusUnauthorized, httpErr.ToErrorResponse())
}
