package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSortKeyTime_FixedWidth(t *testing.T) {
	whole := FormatSortKeyTime(time.Date(2026, 8, 31, 12, 0, 5, 0, time.UTC))
	fractional := FormatSortKeyTime(time.Date(2026, 8, 31, 12, 0, 5, 250_000_000, time.UTC))

	assert.Equal(t, "2026-08-31T12:00:05.000000000Z", whole)
	assert.Equal(t, "2026-08-31T12:00:05.250000000Z", fractional)
	assert.Less(t, whole, fractional)
}

func TestFormatSortKeyTime_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2026, 8, 31, 14, 0, 5, 0, loc)

	assert.Equal(t, "2026-08-31T12:00:05.000000000Z", FormatSortKeyTime(local))
}

func TestParseSortKeyTime_RoundTrip(t *testing.T) {
	original := time.Date(2026, 8, 31, 12, 0, 5, 123_456_789, time.UTC)

	parsed, err := ParseSortKeyTime(FormatSortKeyTime(original))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(original))
}

func TestParseSortKeyTime_AcceptsTrimmedFraction(t *testing.T) {
	parsed, err := ParseSortKeyTime("2026-08-31T12:00:05Z")
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.Nanosecond())
}

func TestRFC3339RoundTrip(t *testing.T) {
	original := time.Date(2026, 8, 31, 12, 0, 5, 0, time.UTC)

	parsed, err := ParseRFC3339(FormatRFC3339(original))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(original))
}
