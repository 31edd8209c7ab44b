package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Offset far from int overflow.
	MaxPage = 1_000_000
)

// Pagination holds normalized page parameters.
type Pagination struct {
	Page     int
	PageSize int
	Offset   int
}

// ParsePagination normalizes raw page and page_size query values.
// Missing or invalid values fall back to page 1 and DefaultPageSize;
// oversized values are clamped to MaxPage and MaxPageSize.
func ParsePagination(pageStr, pageSizeStr string) Pagination {
	page, _ := strconv.Atoi(pageStr)
	pageSize, _ := strconv.Atoi(pageSizeStr)

	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Pagination{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}
