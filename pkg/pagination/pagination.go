// Package pagination parses page/page_size query parameters with bounds.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params holds validated paging parameters.
type Params struct {
	Page     int
	PageSize int
}

// FromRequest reads page and page_size from the query string, clamping
// out-of-range values to the defaults and limits.
func FromRequest(r *http.Request) Params {
	p := Params{Page: DefaultPage, PageSize: DefaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Page = v
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.PageSize = v
		}
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	return p
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages computes the page count for a total row count.
func (p Params) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / p.PageSize
	if int(total)%p.PageSize != 0 {
		pages++
	}
	return pages
}
