package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		size     string
		sort     string
		expected Request
	}{
		{
			name:     "defaults",
			expected: Request{Page: 0, Size: DefaultSize, SortCol: "created_at", SortDesc: true},
		},
		{
			name:     "explicit page and size",
			page:     "2",
			size:     "10",
			expected: Request{Page: 2, Size: 10, SortCol: "created_at", SortDesc: true},
		},
		{
			name:     "size is clamped",
			size:     "1000",
			expected: Request{Page: 0, Size: MaxSize, SortCol: "created_at", SortDesc: true},
		},
		{
			name:     "ascending price sort",
			sort:     "price,asc",
			expected: Request{Page: 0, Size: DefaultSize, SortCol: "price", SortDesc: false},
		},
		{
			name:     "unknown sort falls back to default",
			sort:     "password_hash,desc",
			expected: Request{Page: 0, Size: DefaultSize, SortCol: "created_at", SortDesc: true},
		},
		{
			name:     "garbage page and size are ignored",
			page:     "abc",
			size:     "-5",
			expected: Request{Page: 0, Size: DefaultSize, SortCol: "created_at", SortDesc: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.page, tt.size, tt.sort, "createdAt,desc"))
		})
	}
}

func TestRequest_Offset(t *testing.T) {
	req := Request{Page: 3, Size: 20}
	assert.Equal(t, 60, req.Offset())
}

func TestRequest_OrderClause(t *testing.T) {
	desc := Request{SortCol: "created_at", SortDesc: true}
	assert.Equal(t, "created_at DESC, id DESC", desc.OrderClause())

	asc := Request{SortCol: "price"}
	assert.Equal(t, "price ASC, id ASC", asc.OrderClause())
}

func TestNewPage(t *testing.T) {
	t.Run("computes total pages", func(t *testing.T) {
		page := NewPage([]int{1, 2, 3}, Request{Page: 0, Size: 3}, 7)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, int64(7), page.TotalElements)
	})

	t.Run("nil content serializes as empty slice", func(t *testing.T) {
		page := NewPage[int](nil, Request{Size: 20}, 0)
		assert.NotNil(t, page.Content)
		assert.Empty(t, page.Content)
		assert.Equal(t, 0, page.TotalPages)
	})
}

func TestMap(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, Request{Page: 1, Size: 3}, 9)
	mapped := Map(page, func(n int) string {
		return string(rune('a' + n - 1))
	})

	assert.Equal(t, []string{"a", "b", "c"}, mapped.Content)
	assert.Equal(t, page.Page, mapped.Page)
	assert.Equal(t, page.TotalElements, mapped.TotalElements)
	assert.Equal(t, page.TotalPages, mapped.TotalPages)
}
