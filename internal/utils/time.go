package utils

import (
	"time"
)

// TimestampLayout matches the ISO-8601 stamp written into lastUpdated.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp formats t in UTC for the document's lastUpdated field.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// DayBounds returns the start and end of t's UTC day as date-time strings.
func DayBounds(t time.Time) (string, string) {
	day := t.UTC().Format("2006-01-02")
	return day + "T00:00:00Z", day + "T23:59:59Z"
}
