package listing

import "strconv"

// Link is one slot of the page selector.
type Link struct {
	Page     int  `json:"page,omitempty"`
	Active   bool `json:"active,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

const windowSlots = 5

// Links lays out the page selector: up to five numbered slots around the
// current page, with the first page kept in front and the last page kept
// at the end once the window slides away from them.
func Links(current, totalPages int) []Link {
	if totalPages <= 0 {
		return nil
	}
	var (
		out  []Link
		seen = map[int]bool{}
	)
	add := func(page int) {
		if page < 1 || page > totalPages || seen[page] {
			return
		}
		seen[page] = true
		out = append(out, Link{Page: page, Active: page == current})
	}

	slide := totalPages > windowSlots && current > 3
	for i := range min(totalPages, windowSlots) {
		page := i + 1
		if slide {
			switch {
			case i == 0:
				page = 1
			case i == 1 && current > 4:
				out = append(out, Link{Ellipsis: true})
				continue
			default:
				page = min(current+i-2, totalPages)
			}
		}
		add(page)
	}
	if totalPages > windowSlots && current < totalPages-2 {
		out = append(out, Link{Ellipsis: true})
	}
	if totalPages > windowSlots && current < totalPages-1 {
		add(totalPages)
	}
	return out
}

// Summary is the range text under a table, e.g. "9–16 of 40".
func Summary(start, end, total int) string {
	if total == 0 {
		return "0 of 0"
	}
	return strconv.Itoa(start) + "–" + strconv.Itoa(end) + " of " + strconv.Itoa(total)
}
