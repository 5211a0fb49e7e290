package common

import (
	"net/http"
	"strconv"
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:  1,
		Limit: 10,
	}
}

// ExtractPaginationParams extracts page/limit query parameters from a request.
// Pages are 1-based; anything below 1 is clamped to 1, and the limit is
// capped so a single request cannot page through the whole corpus.
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				l = 100
			}
			params.Limit = l
		}
	}

	return params
}

// Normalize clamps out-of-range values to their defaults
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPaginationParams().Limit
	}
	return p
}

// Offset calculates the 0-based offset for store queries
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageSlice returns the window [offset, offset+limit) of n items as start/end
// indexes. An out-of-range page yields an empty window, never an error.
func (p PaginationParams) PageSlice(n int) (int, int) {
	start := p.Offset()
	if start >= n {
		return 0, 0
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}
