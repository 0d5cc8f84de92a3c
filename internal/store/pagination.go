package store

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination computes page metadata. TotalPages is ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ClampPage normalizes page/limit query values: page ≥ 1, limit in
// [1, maxLimit] with def as the fallback for out-of-range values.
func ClampPage(page, limit, def, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = def
	}
	return page, limit
}
