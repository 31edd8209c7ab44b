package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		pageSize string
		want     Pagination
	}{
		{name: "Defaults", want: Pagination{Page: 1, PageSize: 20, Offset: 0}},
		{name: "Explicit", page: "3", pageSize: "10", want: Pagination{Page: 3, PageSize: 10, Offset: 20}},
		{name: "Negative page", page: "-2", pageSize: "5", want: Pagination{Page: 1, PageSize: 5, Offset: 0}},
		{name: "Oversized page size", page: "2", pageSize: "500", want: Pagination{Page: 2, PageSize: 100, Offset: 100}},
		{name: "Huge page", page: "9223372036854775807", pageSize: "20", want: Pagination{Page: MaxPage, PageSize: 20, Offset: (MaxPage - 1) * 20}},
		{name: "Page past int range", page: "99999999999999999999", pageSize: "20", want: Pagination{Page: MaxPage, PageSize: 20, Offset: (MaxPage - 1) * 20}},
		{name: "Garbage", page: "abc", pageSize: "xyz", want: Pagination{Page: 1, PageSize: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePagination(tt.page, tt.pageSize))
		})
	}
}
