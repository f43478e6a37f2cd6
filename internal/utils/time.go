package utils

import (
	"fmt"
	"time"

	"github.com/gritday/gritday/internal/constants"
)

// Today returns today's date string (YYYY-MM-DD) in the local timezone.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}

// Now returns the current time formatted as an RFC3339 timestamp, the
// storage representation used for all timestamps.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	return t, nil
}

// AddDays returns the date n days after the given date string. It panics on
// malformed input, so callers must validate dates first.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat)
}

// PrevDay returns the date one day before the given date string.
func PrevDay(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(constants.DateFormat), nil
}

// ValidTime reports whether the given string is a valid HH:MM display time.
func ValidTime(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}
