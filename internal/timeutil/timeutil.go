package timeutil

import (
	"math"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// FormatDate formats a time as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SecondsUntil returns the whole seconds from now until target, rounded and clamped to at least 1.
func SecondsUntil(target, now time.Time) int64 {
	secs := int64(math.Round(float64(target.Sub(now).Milliseconds()) / 1000))
	if secs < 1 {
		return 1
	}
	return secs
}

// Earliest returns the earlier of two optional instants; zero values are ignored.
func Earliest(a, b time.Time) time.Time {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.Before(a):
		return b
	default:
		return a
	}
}
