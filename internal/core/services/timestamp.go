package services

import (
	"strings"
	"time"
)

// TimestampLayout is the normalized wire form of a due date: UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Layouts without an offset are read in the calendar location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC 3339 (fractional seconds optional), a bare
// date (UTC midnight), or a date-time without offset interpreted in loc.
// The result is UTC truncated to milliseconds.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return normalize(t), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return normalize(t), nil
	}

	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return normalize(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
