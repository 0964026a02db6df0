package handler

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaledown/internal/errors"
)

func assertHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, status, he.Code)
	resp, ok := he.Message.(errors.ErrorResponse)
	require.True(t, ok, "message should be an ErrorResponse, got %T", he.Message)
	assert.Equal(t, code, resp.Code)
}
