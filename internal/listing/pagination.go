package listing

// Pagination tracks the page cursor of a Controller.
//
// Current only ever moves one step at a time through Next and Previous and
// never drops below 1. Total is the last known page; Current never passes it.
type Pagination struct {
	Current   int
	Total     int
	LastBatch int // number of items delivered by the last fetch or population
}

// NewPagination returns pagination positioned on the first page of one.
func NewPagination() Pagination {
	return Pagination{Current: 1, Total: 1}
}

// Next advances one page unless Current is already on Total.
func (p *Pagination) Next() {
	if p.Current < p.Total {
		p.Current++
	}
}

// Previous steps back one page, stopping at 1.
func (p *Pagination) Previous() {
	if p.Current > 1 {
		p.Current--
	}
}

// Rewind moves back to the first page. Total is kept.
func (p *Pagination) Rewind() {
	p.Current = 1
}

// IsFirst reports whether Current is the first page.
func (p Pagination) IsFirst() bool {
	return p.Current <= 1
}

// IsLast reports whether Current is the last known page.
func (p Pagination) IsLast() bool {
	return p.Current >= p.Total
}

// markExhausted applies the terminal-page rule after an empty batch: the
// page before the empty one is the last page.
func (p *Pagination) markExhausted() {
	p.Previous()
	p.Total = p.Current
	p.LastBatch = 0
}

// accept records a non-empty batch of n items. A reported total is adopted
// as is; without one, Total is kept at least one page ahead so the next
// load-more can probe for an empty page.
func (p *Pagination) accept(n, reportedTotal int) {
	p.LastBatch = n
	switch {
	case reportedTotal > 0:
		p.Total = max(reportedTotal, p.Current)
	case p.Total <= p.Current:
		p.Total = p.Current + 1
	}
}
