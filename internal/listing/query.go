package listing

import (
	"maps"

	"zerostour/internal/resource"
)

// Query is everything that decides which page is shown.
type Query struct {
	Page           int               `json:"page"`
	PageSize       int               `json:"pageSize"`
	Search         string            `json:"search,omitempty"`
	Filters        map[string]string `json:"filters,omitempty"`
	SortBy         string            `json:"sortBy"`
	SortDescending bool              `json:"sortDescending"`
}

// Request builds the wire request. Search travels as filters.search and
// is omitted when blank.
func (q Query) Request() resource.PagedRequest {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		if v != "" {
			filters[k] = v
		}
	}
	if q.Search != "" {
		filters[resource.SearchFilter] = q.Search
	}
	return resource.PagedRequest{
		PageNumber:     q.Page,
		PageSize:       q.PageSize,
		SortBy:         q.SortBy,
		SortDescending: q.SortDescending,
		Filters:        filters,
	}
}

// Position is a query plus the page count last seen for it, so a rebuilt
// controller can keep the page in range before fetching. A zero
// TotalPages means the count is not known yet.
type Position struct {
	Query
	TotalPages int `json:"totalPages,omitempty"`
}

func (q Query) clone() Query {
	q.Filters = maps.Clone(q.Filters)
	return q
}

// sameSelection reports whether a and b select the same result set, so
// that only the page number may differ.
func sameSelection(a, b Query) bool {
	if a.PageSize != b.PageSize || a.Search != b.Search ||
		a.SortBy != b.SortBy || a.SortDescending != b.SortDescending {
		return false
	}
	return maps.Equal(nonEmpty(a.Filters), nonEmpty(b.Filters))
}

func nonEmpty(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
