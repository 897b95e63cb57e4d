package shared

import "strings"

// CriteriaOrderBy is the sort direction used by criteria queries
type CriteriaOrderBy string

const (
	OrderByAsc  CriteriaOrderBy = "ASC"
	OrderByDesc CriteriaOrderBy = "DESC"
)

// DefaultMaxCount is applied when a criteria query does not set MaxCount
const DefaultMaxCount = 20

// Criteria holds the query parameters shared by every list operation.
// StartIndex and MaxCount follow offset/limit semantics.
type Criteria struct {
	StartIndex   int             `criteria:"StartIndex"`
	MaxCount     int             `criteria:"MaxCount"`
	Language     string          `criteria:"Language"`
	Search       string          `criteria:"Search"`
	StoreCode    string          `criteria:"StoreCode"`
	OrderBy      CriteriaOrderBy `criteria:"OrderBy"`
	OrderByField string          `criteria:"OrderByField"`
}

// Limit returns MaxCount clamped to [1, MaxPageSize]
func (c Criteria) Limit() int {
	if c.MaxCount <= 0 {
		return DefaultMaxCount
	}
	if c.MaxCount > MaxPageSize {
		return MaxPageSize
	}
	return c.MaxCount
}

// Offset returns StartIndex, never negative
func (c Criteria) Offset() int {
	if c.StartIndex < 0 {
		return 0
	}
	return c.StartIndex
}

// Page returns the 1-based page number implied by StartIndex and MaxCount
func (c Criteria) Page() int {
	return c.Offset()/c.Limit() + 1
}

// Direction returns the lower-cased SQL direction
func (c Criteria) Direction() string {
	if strings.EqualFold(string(c.OrderBy), string(OrderByDesc)) {
		return "desc"
	}
	return "asc"
}

// ToFilter converts the criteria into a repository filter
func (c Criteria) ToFilter() Filter {
	return Filter{
		Page:     c.Page(),
		PageSize: c.Limit(),
		OrderBy:  c.OrderByField,
		OrderDir: c.Direction(),
		Search:   c.Search,
		Filters:  make(map[string]interface{}),
	}
}
