// Package pagination parses page/size query parameters and shapes paged
// list responses.
package pagination

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPage = 1
	DefaultSize = 50
	MaxSize     = 100

	// MaxPage keeps Offset within int for every accepted size.
	MaxPage = math.MaxInt / MaxSize
)

var (
	ErrInvalidPage = errors.New("invalid page")
	ErrInvalidSize = errors.New("invalid size")
)

// Params is a requested page. Page is 1-based.
type Params struct {
	Page int
	Size int
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// FromRequest reads page and size from the query string. "limit" is accepted
// in place of "size". Sizes above MaxSize are clamped; pages above MaxPage
// are rejected.
func FromRequest(r *http.Request) (Params, error) {
	params := Params{Page: DefaultPage, Size: DefaultSize}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > MaxPage {
			return Params{}, ErrInvalidPage
		}
		params.Page = page
	}

	rawSize := strings.TrimSpace(query.Get("size"))
	if rawSize == "" {
		rawSize = strings.TrimSpace(query.Get("limit"))
	}
	if rawSize != "" {
		size, err := strconv.Atoi(rawSize)
		if err != nil || size < 1 {
			return Params{}, ErrInvalidSize
		}
		params.Size = min(size, MaxSize)
	}

	return params, nil
}

// Page is one page of a list response.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// New builds a page from the items of params and the total row count.
func New[T any](items []T, total int, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if params.Size > 0 {
		pages = (total + params.Size - 1) / params.Size
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
		Pages: pages,
	}
}
