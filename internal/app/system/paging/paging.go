// internal/app/system/paging/paging.go

// Package paging parses page/limit query parameters for list endpoints.
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when the request does not specify one.
const DefaultLimit = 10

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

// Page holds a parsed page request.
type Page struct {
	Number int // 1-based
	Limit  int
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

// Limit64 returns the page size as int64 for Mongo Find().SetLimit().
func (p Page) Limit64() int64 { return int64(p.Limit) }

// Parse reads page and limit from the request query, clamping both to
// sane bounds. Missing or malformed values fall back to page 1 and
// DefaultLimit.
func Parse(r *http.Request) Page {
	p := Page{Number: 1, Limit: DefaultLimit}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Number = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
			if p.Limit > MaxLimit {
				p.Limit = MaxLimit
			}
		}
	}
	return p
}
