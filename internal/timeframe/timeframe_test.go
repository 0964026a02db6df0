package timeframe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaledown/internal/errors"
)

func TestIsValidParamDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2021-10-12", true},
		{"2001-01-01", true},
		{"2999-12-31", true},
		{"2021-13-01", true}, // loose month bound
		{"2021-02-31", true}, // no month-length check
		{"2000-01-01", false},
		{"3000-01-01", false},
		{"2021-00-10", false},
		{"2021-14-10", false},
		{"2021-10-00", false},
		{"2021-10-32", false},
		{"2021-1-5", false},
		{"21-10-12", false},
		{"2021/10/12", false},
		{"today", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidParamDate(tt.in))
		})
	}
}

func TestResolve_SingleDate(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)

	w, err := Resolve(Params{Date: "2021-10-12"}, time.Now(), loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 10, 12, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2021, 10, 13, 0, 0, 0, 0, loc), w.End)
}

func TestResolve_RangeExcludesEndDate(t *testing.T) {
	w, err := Resolve(Params{StartDate: "2021-10-01", EndDate: "2021-10-08"}, time.Now(), time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2021, 10, 8, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(time.Date(2021, 10, 7, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2021, 10, 8, 12, 0, 0, 0, time.UTC)))
}

func TestResolve_DateEqualsOneDayRange(t *testing.T) {
	single, err := Resolve(Params{Date: "2021-10-12"}, time.Now(), time.UTC)
	require.NoError(t, err)

	rng, err := Resolve(Params{StartDate: "2021-10-12", EndDate: "2021-10-13"}, time.Now(), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, single, rng)
}

func TestResolve_DefaultsToToday(t *testing.T) {
	now := time.Date(2021, 10, 12, 15, 28, 43, 0, time.UTC)

	w, err := Resolve(Params{}, now, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 10, 12, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2021, 10, 13, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(now))
}

func TestResolve_TodayUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on the 12th is already the 13th in Tokyo.
	now := time.Date(2021, 10, 12, 20, 0, 0, 0, time.UTC)

	w := Today(now, tokyo)

	assert.Equal(t, time.Date(2021, 10, 13, 0, 0, 0, 0, tokyo), w.Start)
}

func TestResolve_NormalizesOutOfCalendarDates(t *testing.T) {
	w, err := Resolve(Params{Date: "2021-13-01"}, time.Now(), time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{
			name:    "all three parameters",
			params:  Params{Date: "2021-10-12", StartDate: "2021-10-01", EndDate: "2021-10-08"},
			wantErr: errors.ErrConflictingDateParams,
		},
		{
			name:    "all three parameters even when malformed",
			params:  Params{Date: "bad", StartDate: "bad", EndDate: "bad"},
			wantErr: errors.ErrConflictingDateParams,
		},
		{
			name:    "malformed date",
			params:  Params{Date: "12-10-2021"},
			wantErr: errors.ErrInvalidDateParam,
		},
		{
			name:    "malformed end date",
			params:  Params{StartDate: "2021-10-01", EndDate: "2021-10-99"},
			wantErr: errors.ErrInvalidDateParam,
		},
		{
			name:    "start date only",
			params:  Params{StartDate: "2021-10-01"},
			wantErr: errors.ErrIncompleteDateRange,
		},
		{
			name:    "end date only",
			params:  Params{EndDate: "2021-10-01"},
			wantErr: errors.ErrIncompleteDateRange,
		},
		{
			name:    "date with half a range",
			params:  Params{Date: "2021-10-12", EndDate: "2021-10-13"},
			wantErr: errors.ErrIncompleteDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.params, time.Now(), time.UTC)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
