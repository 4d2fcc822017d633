package user

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64 // Total number of matching records
	Page       int64 // Current page number (1-based)
	PerPage    int64 // Number of records per page
	TotalPages int64 // Total number of pages
	HasNext    bool  // HasNext reports whether a later page exists
	HasPrev    bool  // HasPrev reports whether an earlier page exists
}

// NewPagination creates a new Pagination instance with calculated total pages.
func NewPagination(total, page, perPage int64) *Pagination {
	var totalPages int64
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	return &Pagination{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Offset returns the index of the first record on the current page.
func (p *Pagination) Offset() int64 {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}
