package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 20, 0, 20},
		{"second page", 2, 20, 20, 20},
		{"custom size", 3, 10, 20, 10},
		{"zero page clamps to first", 0, 10, 0, 10},
		{"negative page clamps to first", -5, 10, 0, 10},
		{"zero size uses default", 2, 0, uint64(DefaultPageSize), DefaultPageSize},
		{"oversized size uses default", 1, MaxPageSize + 1, 0, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(93, 1, 20)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Equal(t, 5, info.TotalPages)
	assert.Equal(t, 20, info.PageSize)
	assert.Equal(t, int64(93), info.TotalItems)

	// An empty result set still reports one page.
	info = NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, info.TotalPages)
	assert.Equal(t, int64(0), info.TotalItems)

	// A page past the end clamps to the last page.
	info = NewPaginationInfo(10, 7, 20)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Equal(t, 1, info.TotalPages)
}
