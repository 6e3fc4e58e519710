package models

// Pagination describes a page-number pager. Jikan list pages are walked one
// at a time, so the next page is always offered.
type Pagination struct {
	Page    int
	HasPrev bool
	Prev    int
	Next    int
}

// NewPagination builds the pager state for page, clamping values below 1.
func NewPagination(page int) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{
		Page:    page,
		HasPrev: page > 1,
		Prev:    page - 1,
		Next:    page + 1,
	}
}
