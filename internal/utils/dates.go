package utils

import (
	"fmt"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// ParseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates and returns the instant in UTC.
// The second return value reports whether the input was a plain date.
func ParseDate(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t.UTC(), true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q", value)
}

// EndOfDay returns the last representable instant of t's UTC calendar day.
func EndOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
