package dto

// PaginationQuery lit skip/limit depuis la query string. Les valeurs par défaut sont
// posées avant le binding.
type PaginationQuery struct {
	Skip  int `query:"skip" validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=1,lte=100"`
}

func NewPaginationQuery() PaginationQuery {
	return PaginationQuery{Skip: 0, Limit: 10}
}
