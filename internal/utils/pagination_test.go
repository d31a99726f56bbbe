package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  PaginationParams
	}{
		{"defaults", "", PaginationParams{Page: 1, PageSize: DefaultPageSize, Sort: "created_at", Order: "desc"}},
		{"clamps", "?page=-3&page_size=1000&order=sideways", PaginationParams{Page: 1, PageSize: MaxPageSize, Sort: "created_at", Order: "desc"}},
		{"limit alias", "?limit=5&sort=amount&order=asc", PaginationParams{Page: 1, PageSize: 5, Sort: "amount", Order: "asc"}},
		{"unknown sort field", "?sort=password", PaginationParams{Page: 1, PageSize: DefaultPageSize, Sort: "created_at", Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/x"+tt.query, nil)

			got := GetPaginationParams(c)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestPaginationWindowAndMeta(t *testing.T) {
	p := &PaginationParams{Page: 3, PageSize: 10}

	start, end := p.Window(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = p.Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	meta := CreatePaginationMeta(p, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
}
