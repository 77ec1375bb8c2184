package catalog

import (
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// Pagination describes one page of an ordered collection.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
	Total    int64 `json:"total"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
}

type Page[T any] struct {
	Items []T `json:"items"`
	Pagination
}

// NewPage computes the page counters from a total row count.
func NewPage(total int64, page, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
		Total:    total,
		HasNext:  page < pages,
		HasPrev:  page > 1,
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePage reads a page query parameter; anything not a positive integer is page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
