package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	userID := uuid.New()

	token, claims, err := svc.GenerateToken(userID, "matt")
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), parsed.UserID)
	assert.Equal(t, "matt", parsed.UserName)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	userID := uuid.New()

	_, first, err := svc.GenerateToken(userID, "matt")
	require.NoError(t, err)
	_, second, err := svc.GenerateToken(userID, "matt")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, _, err := NewJWTService("other", time.Hour).GenerateToken(uuid.New(), "matt")
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).ValidateToken(token)

	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	claims := &Claims{
		UserID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNewJWTService_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTokenTTL, NewJWTService("secret", 0).TTL())
}

func TestRemainingTTL(t *testing.T) {
	now := time.Now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}

	assert.InDelta(t, time.Hour.Seconds(), RemainingTTL(claims, now).Seconds(), 1)
	assert.Zero(t, RemainingTTL(nil, now))
}
