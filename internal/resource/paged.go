package resource

// SearchFilter is the filter key the report endpoints use for free text.
const SearchFilter = "search"

// PagedRequest is the body of every report (list) call.
type PagedRequest struct {
	PageNumber     int               `json:"pageNumber"`
	PageSize       int               `json:"pageSize"`
	SortBy         string            `json:"sortBy"`
	SortDescending bool              `json:"sortDescending"`
	Filters        map[string]string `json:"filters"`
}

// PagedResponse is one page of a report. Field names keep the backend's
// capitalised casing.
type PagedResponse[T any] struct {
	Items        []T `json:"Items"`
	PageNumber   int `json:"PageNumber"`
	PageSize     int `json:"PageSize"`
	TotalRecords int `json:"TotalRecords"`
	TotalPages   int `json:"TotalPages"`
}

// TotalPagesFor returns ceil(totalRecords / pageSize), or 0 when pageSize
// is not positive.
func TotalPagesFor(totalRecords, pageSize int) int {
	if pageSize <= 0 || totalRecords <= 0 {
		return 0
	}
	return (totalRecords + pageSize - 1) / pageSize
}

// Normalize fixes up counters the backend may leave out and enforces the
// page invariants: TotalPages is derived from TotalRecords and Items never
// exceeds PageSize.
func (p *PagedResponse[T]) Normalize(req PagedRequest) {
	if p.PageNumber <= 0 {
		p.PageNumber = req.PageNumber
	}
	if p.PageSize <= 0 {
		p.PageSize = req.PageSize
	}
	if p.TotalRecords < 0 {
		p.TotalRecords = 0
	}
	if p.PageSize > 0 {
		p.TotalPages = TotalPagesFor(p.TotalRecords, p.PageSize)
		if len(p.Items) > p.PageSize {
			p.Items = p.Items[:p.PageSize]
		}
	}
	if p.Items == nil {
		p.Items = []T{}
	}
}

// Range returns the 1-based positions of the first and last item on the
// page, or 0,0 for an empty page.
func (p *PagedResponse[T]) Range() (start, end int) {
	if len(p.Items) == 0 {
		return 0, 0
	}
	start = (p.PageNumber-1)*p.PageSize + 1
	end = min(start+len(p.Items)-1, p.TotalRecords)
	return start, end
}
