package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPaginationParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/feed", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
}

func TestExtractPaginationParams_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/feed?page=3&limit=25", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Limit)
}

func TestExtractPaginationParams_IgnoresInvalid(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/feed?page=abc&limit=-5", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
}

func TestExtractPaginationParams_CapsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/feed?limit=5000", nil)

	params := ExtractPaginationParams(r)

	assert.Equal(t, 100, params.Limit)
}

func TestPaginationParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, PaginationParams{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 50, PaginationParams{Page: 6, Limit: 10}.Offset())
}

func TestPaginationParams_Normalize(t *testing.T) {
	params := PaginationParams{Page: -3, Limit: 0}.Normalize()

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
}

func TestPaginationParams_PageSlice(t *testing.T) {
	start, end := PaginationParams{Page: 1, Limit: 10}.PageSlice(25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	start, end = PaginationParams{Page: 3, Limit: 10}.PageSlice(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	// Past the end yields an empty window
	start, end = PaginationParams{Page: 4, Limit: 10}.PageSlice(25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
