package utils

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Pagination struct {
	Total       uint64 `json:"total"`
	Skip        uint64 `json:"skip"`
	Limit       uint64 `json:"limit"`
	TotalPages  uint64 `json:"total_pages"`
	CurrentPage uint64 `json:"current_page"`
	HasNext     bool   `json:"has_next"`
	HasPrevious bool   `json:"has_previous"`
}

// Paginate calcule les métadonnées d'une page skip/limit.
func Paginate(total, skip, limit uint64) Pagination {
	p := Pagination{
		Total:       total,
		Skip:        skip,
		Limit:       limit,
		CurrentPage: 1,
		HasNext:     skip+limit < total,
		HasPrevious: skip > 0,
	}
	if limit > 0 {
		p.TotalPages = (total + limit - 1) / limit
		p.CurrentPage = skip/limit + 1
	}
	return p
}
