package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriteria_Limit(t *testing.T) {
	assert.Equal(t, DefaultMaxCount, Criteria{}.Limit())
	assert.Equal(t, 5, Criteria{MaxCount: 5}.Limit())
	assert.Equal(t, MaxPageSize, Criteria{MaxCount: 5000}.Limit())
}

func TestCriteria_Page(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     int
	}{
		{"first page", Criteria{StartIndex: 0, MaxCount: 10}, 1},
		{"second page", Criteria{StartIndex: 10, MaxCount: 10}, 2},
		{"inside second page", Criteria{StartIndex: 15, MaxCount: 10}, 2},
		{"negative start", Criteria{StartIndex: -4, MaxCount: 10}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Page())
		})
	}
}

func TestCriteria_ToFilter(t *testing.T) {
	c := Criteria{StartIndex: 20, MaxCount: 10, Search: "shoe", OrderBy: OrderByDesc, OrderByField: "sort_order"}
	f := c.ToFilter()

	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 10, f.PageSize)
	assert.Equal(t, "shoe", f.Search)
	assert.Equal(t, "desc", f.OrderDir)
	assert.Equal(t, "sort_order", f.OrderBy)
	assert.Equal(t, 20, f.Offset())
}

func TestDomainError_Is(t *testing.T) {
	wrapped := WrapDomainError("NOT_FOUND", "store not found", assert.AnError)

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.NotErrorIs(t, wrapped, ErrInvalidInput)
	assert.Equal(t, "NOT_FOUND", ErrorCode(wrapped))
	assert.Equal(t, "", ErrorCode(assert.AnError))
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPaginated([]int{}, 0, 1, 0)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.TotalPages)
}

type testDesc struct{ lang string }

func (d testDesc) LanguageCode() string { return d.lang }

func TestFindLocalized(t *testing.T) {
	items := []testDesc{{"en"}, {"fr"}}

	assert.Equal(t, 1, FindLocalized(items, "FR", "en"))
	assert.Equal(t, 0, FindLocalized(items, "de", "en"))
	assert.Equal(t, 1, FindLocalized(items, "de", "fr"))
	assert.Equal(t, 0, FindLocalized(items, "de", "es"))
	assert.Equal(t, -1, FindLocalized([]testDesc{}, "en", "en"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "summer-shoes-2024", Slugify("  Summer Shoes -- 2024! "))
	assert.Equal(t, "", Slugify("!!!"))
}
