package helpers

import (
	"net/http"
	"strconv"

	"eventpages/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Missing,
// malformed, and out-of-range values fall back: page 1, page_size 20,
// capped at 100.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	params := domain.PaginationParams{Page: 1, PageSize: defaultPageSize}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 1 {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v >= 1 {
		params.PageSize = min(v, maxPageSize)
	}
	return params
}

// PaginationMeta accompanies every paginated list response.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta derives TotalPages as ceil(total/pageSize).
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}
