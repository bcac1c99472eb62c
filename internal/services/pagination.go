package services

import "math"

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// PageMeta describes one page of a paginated listing. Pages are 1-based.
type PageMeta struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
}

// normalizePage clamps page and pageSize to sane values
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// buildPageMeta derives the paging envelope. An out-of-range page keeps its
// requested number but reports no next page.
func buildPageMeta(page, pageSize int, total int64) PageMeta {
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	return PageMeta{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
	}
}
