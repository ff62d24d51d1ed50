package model

import (
	"math"
	"net/url"
	"strconv"
)

// Page size limits of list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams selects one page of a list
type PageParams struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// ParsePageParams reads page and page_size from a query string. A missing
// or malformed page_size falls back to the default; a larger one is capped.
// ok is false when page is not a positive integer.
func ParsePageParams(q url.Values) (params PageParams, ok bool) {
	params = PageParams{Page: 1, PageSize: DefaultPageSize}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return params, false
		}
		params.Page = n
	}
	if raw := q.Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			params.PageSize = n
		}
	}
	return params.Normalize(), true
}

// Normalize clamps the parameters into the accepted range
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset of the first row of the page
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of a list response
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// TotalPages returns ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return int(math.Ceil(float64(count) / float64(pageSize)))
}

// HasNext reports whether a page follows p.
func (p PageParams) HasNext(count int) bool {
	return p.Page < TotalPages(count, p.PageSize)
}

// HasPrevious reports whether a page precedes p.
func (p PageParams) HasPrevious() bool {
	return p.Page > 1
}

// InRange reports whether p exists for a list of count rows. The first
// page always exists.
func (p PageParams) InRange(count int) bool {
	return p.Page == 1 || p.Offset() < count
}
