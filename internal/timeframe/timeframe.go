// Package timeframe turns the date query parameters of the totals and meal
// listing endpoints into a half-open time window.
package timeframe

import (
	"regexp"
	"strconv"
	"time"

	"scaledown/internal/errors"
)

// Params are the raw date query parameters. Empty means not sent.
type Params struct {
	Date      string `query:"date"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

var paramDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// IsValidParamDate checks that s looks like YYYY-MM-DD with a year strictly
// between 2000 and 3000, a month from 1 to 13 and a day from 1 to 31. The
// check is deliberately loose and does not know month lengths or leap years.
func IsValidParamDate(s string) bool {
	_, _, _, ok := splitParamDate(s)
	return ok
}

func splitParamDate(s string) (year, month, day int, ok bool) {
	m := paramDatePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	day, _ = strconv.Atoi(m[3])
	if year <= 2000 || year >= 3000 {
		return 0, 0, 0, false
	}
	if month < 1 || month > 13 {
		return 0, 0, 0, false
	}
	if day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// midnight returns 00:00 of the parameter date in loc. Values beyond the
// calendar roll over the way time.Date normalizes them.
func midnight(s string, loc *time.Location) (time.Time, error) {
	year, month, day, ok := splitParamDate(s)
	if !ok {
		return time.Time{}, errors.ErrInvalidDateParam
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// Resolve validates p and returns the window it selects.
//
//   - date=D selects [D 00:00, D+1 00:00).
//   - startDate=S&endDate=E selects [S 00:00, E 00:00); E itself is excluded.
//   - no parameters selects today, like date=<today>.
//
// Sending all three parameters, or a range parameter without its pair, is
// rejected before any date is parsed into a window.
func Resolve(p Params, now time.Time, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}

	if p.Date != "" && p.StartDate != "" && p.EndDate != "" {
		return Window{}, errors.ErrConflictingDateParams
	}
	for _, v := range []string{p.Date, p.StartDate, p.EndDate} {
		if v != "" && !IsValidParamDate(v) {
			return Window{}, errors.ErrInvalidDateParam
		}
	}

	switch {
	case p.Date != "" && p.StartDate == "" && p.EndDate == "":
		start, err := midnight(p.Date, loc)
		if err != nil {
			return Window{}, err
		}
		return Window{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case p.Date == "" && p.StartDate != "" && p.EndDate != "":
		start, err := midnight(p.StartDate, loc)
		if err != nil {
			return Window{}, err
		}
		end, err := midnight(p.EndDate, loc)
		if err != nil {
			return Window{}, err
		}
		return Window{Start: start, End: end}, nil
	case p.Date == "" && p.StartDate == "" && p.EndDate == "":
		return Today(now, loc), nil
	default:
		return Window{}, errors.ErrIncompleteDateRange
	}
}

// Today returns the window covering the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	n := now.In(loc)
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}
