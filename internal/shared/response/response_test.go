package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name       string
		total      int
		page       int
		limit      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{name: "empty", total: 0, page: 1, limit: 10, totalPages: 0, hasNext: false, hasPrev: false},
		{name: "exact fit", total: 20, page: 1, limit: 10, totalPages: 2, hasNext: true, hasPrev: false},
		{name: "partial last page", total: 21, page: 3, limit: 10, totalPages: 3, hasNext: false, hasPrev: true},
		{name: "middle page", total: 50, page: 2, limit: 10, totalPages: 5, hasNext: true, hasPrev: true},
		{name: "page beyond range", total: 5, page: 9, limit: 10, totalPages: 1, hasNext: false, hasPrev: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.total, tc.page, tc.limit)
			assert.Equal(t, tc.total, p.Total)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.limit, p.Limit)
			assert.Equal(t, tc.totalPages, p.TotalPages)
			assert.Equal(t, tc.hasNext, p.HasNext)
			assert.Equal(t, tc.hasPrev, p.HasPrev)
		})
	}
}
