// Package pagination windows in-memory result lists by page.
package pagination

import (
	"net/http"
	"strconv"

	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

// Page size limits.
const (
	DefaultPerPage = 24
	MaxPerPage     = 100
)

// Params selects one page of a list. Pages are 1-based.
type Params struct {
	Page    int
	PerPage int
}

// DefaultParams returns the first page at the default size.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// Offset is the index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// FromRequest reads the page and per_page query parameters. Missing values
// take the defaults; malformed or out-of-range values are rejected.
func FromRequest(r *http.Request) (Params, error) {
	p := DefaultParams()
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return p, apperrors.InvalidInput("page must be a positive integer")
		}
		p.Page = v
	}

	if raw := q.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxPerPage {
			return p, apperrors.InvalidInput("per_page must be between 1 and " + strconv.Itoa(MaxPerPage))
		}
		p.PerPage = v
	}

	return p, nil
}

// Page is one window of a list plus the navigation metadata.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Slice cuts the page selected by p out of items. A page past the end is
// empty but still reports the totals.
func Slice[T any](items []T, p Params) Page[T] {
	total := len(items)
	totalPages := (total + p.PerPage - 1) / p.PerPage

	start := min(p.Offset(), total)
	end := min(start+p.PerPage, total)

	window := make([]T, end-start)
	copy(window, items[start:end])

	return Page[T]{
		Items:      window,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
