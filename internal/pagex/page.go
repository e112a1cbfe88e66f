// Package pagex implements the page arithmetic behind the file gallery.
package pagex

// DefaultPerPage matches the gallery grid size.
const DefaultPerPage = 12

// Page describes one page of a collection. Number is always clamped into
// [1, max(1, TotalPages)]; Start and End are item bounds usable for slicing.
type Page struct {
	Number     int
	PerPage    int
	TotalItems int
	TotalPages int
	Start      int
	End        int
}

// Paginate computes the page layout for total items split by perPage and
// clamps the requested page into the valid range.
func Paginate(total, perPage, page int) Page {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}

	p := Page{PerPage: perPage, TotalItems: total}
	p.TotalPages = (total + perPage - 1) / perPage
	p.Number = clamp(page, 1, p.last())

	p.Start = (p.Number - 1) * perPage
	if p.Start > total {
		p.Start = total
	}
	p.End = p.Start + perPage
	if p.End > total {
		p.End = total
	}
	return p
}

// Slice returns the items of the requested (clamped) page together with its layout.
func Slice[T any](items []T, page, perPage int) ([]T, Page) {
	p := Paginate(len(items), perPage, page)
	return items[p.Start:p.End], p
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Window returns up to n consecutive page numbers, keeping the current page
// inside the window and as close to its middle as the bounds allow.
func (p Page) Window(n int) []int {
	last := p.last()
	if n < 1 {
		return nil
	}
	if n > last {
		n = last
	}
	start := clamp(p.Number-n/2, 1, last-n+1)

	pages := make([]int, 0, n)
	for i := start; i < start+n; i++ {
		pages = append(pages, i)
	}
	return pages
}

func (p Page) last() int {
	if p.TotalPages < 1 {
		return 1
	}
	return p.TotalPages
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
