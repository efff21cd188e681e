package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	page, info := Paginate(items, 2, 5)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, page)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, int64(12), info.TotalItems)

	page, info = Paginate(items, 3, 5)
	assert.Equal(t, []int{11, 12}, page)
	assert.Equal(t, 3, info.CurrentPage)

	page, info = Paginate(items, 9, 5)
	assert.Empty(t, page)
	assert.Equal(t, 9, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)

	page, info = Paginate(items, 1, 0)
	assert.Len(t, page, 12)
	assert.Equal(t, 1, info.TotalPages)
}

func TestPaginate_PastLastPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	page, info := Paginate(items, 5, 10)
	assert.Empty(t, page)
	assert.Equal(t, 5, info.CurrentPage, "page past the end must not claim to be the last page")
	assert.Equal(t, 2, info.TotalPages)
	assert.Equal(t, int64(12), info.TotalItems)

	info = NewPaginationInfo(12, 7, 10)
	assert.Equal(t, 7, info.CurrentPage)
}

func TestPaginate_Empty(t *testing.T) {
	page, info := Paginate([]string{}, 1, 10)
	assert.Empty(t, page)
	assert.Equal(t, 1, info.TotalPages)
	assert.Equal(t, int64(0), info.TotalItems)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, DefaultPageSize},
		{"?page=3&size=20", 3, 20},
		{"?page=-1&size=1000", 1, DefaultPageSize},
		{"?page=abc", 1, DefaultPageSize},
		{"?all=true", 1, 0},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/components"+tt.query, nil)
		page, size := ParsePaginationParams(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.size, size, tt.query)
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 8*time.Hour, ParseDuration("8h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}
