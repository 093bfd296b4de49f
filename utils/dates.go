package utils

import (
	"errors"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// DayStart truncates t to midnight of its calendar day in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// MonthStart returns midnight of the first day of t's month in loc.
func MonthStart(t time.Time, loc *time.Location) time.Time {
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), 1, 0, 0, 0, 0, loc)
}

// ParseDay accepts YYYY-MM-DD (read in loc) or an RFC 3339 timestamp and
// returns the normalized day start.
func ParseDay(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	if d, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return DayStart(ts, loc), nil
	}
	return time.Time{}, ErrInvalidDate
}
