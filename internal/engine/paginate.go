package engine

import "github.com/nshaw/adminapi/internal/domain"

// Page couples one slice of results with its pagination metadata.
type Page struct {
	Data []domain.Record       `json:"data"`
	Meta domain.PaginationMeta `json:"pagination"`
}

// Paginate slices an already searched and sorted set. The total argument is
// the count of the set being paged (post-filter), which the meta reports even
// when projection or slicing shrinks the returned data. An out-of-range page
// yields an empty slice, never an error.
func Paginate(records []domain.Record, spec domain.PaginationSpec, total int) Page {
	page := spec.Page
	if page < 1 {
		page = 1
	}
	limit := spec.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	start := (page - 1) * limit
	end := start + limit
	data := []domain.Record{}
	if start < len(records) {
		if end > len(records) {
			end = len(records)
		}
		data = records[start:end]
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page{
		Data: data,
		Meta: domain.PaginationMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			Returned:   len(data),
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}
