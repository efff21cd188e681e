package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tilab/tilab/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	} else if page == 1 {
		totalPages = 1
	}

	// CurrentPage echoes the requested page even past the end, so it always
	// describes the items returned alongside it.
	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams extracts and validates pagination parameters from the request.
// A size of 0 ("size=0" or "all=true") means no paging.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	if c.Query("all") == "true" {
		return DefaultPage, 0
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size < 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	start = (page - 1) * size
	end = start + size

	if start >= totalItems {
		start = totalItems
		end = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return start, end
}

// Paginate returns one page of items. A size of 0 returns every item.
func Paginate[T any](items []T, page, size int) ([]T, dto.PaginationInfo) {
	if items == nil {
		items = []T{}
	}
	if size == 0 {
		n := len(items)
		pageSize := n
		if pageSize == 0 {
			pageSize = DefaultPageSize
		}
		return items, NewPaginationInfo(int64(n), DefaultPage, pageSize)
	}

	start, end := CalculateSliceIndices(page, size, len(items))
	return items[start:end], NewPaginationInfo(int64(len(items)), page, size)
}
