package utils

import "time"

// sortKeyTimeLayout is RFC3339 with a fixed-width nanosecond fraction.
// RFC3339Nano trims trailing zeros, which breaks lexicographic ordering
// inside range keys; the fixed width keeps string order chronological.
const sortKeyTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatSortKeyTime renders a UTC timestamp at nanosecond precision for
// use inside range keys
func FormatSortKeyTime(t time.Time) string {
	return t.UTC().Format(sortKeyTimeLayout)
}

// ParseSortKeyTime parses a timestamp produced by FormatSortKeyTime.
// It also accepts trimmed fractions for items written by older builds.
func ParseSortKeyTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatRFC3339 renders a time in RFC3339 at second precision
func FormatRFC3339(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
