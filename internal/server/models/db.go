package models

import "time"

// TimeLayout is how timestamps are stored in TEXT columns. It sorts
// lexically and is understood by SQLite's date functions.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in TimeLayout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout value as UTC.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.UTC)
}
