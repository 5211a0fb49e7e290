package dynamodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLikeUpdateExpression(t *testing.T) {
	add := likeUpdateExpression(likeOpAdd)
	assert.Equal(t, "ADD Likes :like SET UpdatedAt = :now", add)

	remove := likeUpdateExpression(likeOpRemove)
	assert.Equal(t, "DELETE Likes :like SET UpdatedAt = :now", remove)
}

func TestPostSortKey_LexicographicOrderIsChronological(t *testing.T) {
	id := "3f1a1f66-0000-4000-8000-000000000000"

	// A zero-nanosecond timestamp must still sort before a fractional
	// timestamp later in the same second
	whole := time.Date(2026, 8, 31, 12, 0, 5, 0, time.UTC)
	fractional := time.Date(2026, 8, 31, 12, 0, 5, 250_000_000, time.UTC)
	nextSecond := time.Date(2026, 8, 31, 12, 0, 6, 1, time.UTC)

	k1 := postSortKey(whole, id)
	k2 := postSortKey(fractional, id)
	k3 := postSortKey(nextSecond, id)

	assert.Less(t, k1, k2)
	assert.Less(t, k2, k3)
}

func TestPostSortKey_FixedWidthFraction(t *testing.T) {
	id := "3f1a1f66-0000-4000-8000-000000000000"

	whole := postSortKey(time.Date(2026, 8, 31, 12, 0, 5, 0, time.UTC), id)
	fractional := postSortKey(time.Date(2026, 8, 31, 12, 0, 5, 123, time.UTC), id)

	// Same timestamp width regardless of trailing zeros
	assert.Equal(t, len(fractional), len(whole))
	assert.Contains(t, whole, "12:00:05.000000000Z")
}
