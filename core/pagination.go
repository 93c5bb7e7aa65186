package core

import "math"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination is bound from the `page` and `limit` query params.
type Pagination struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Clean applies the defaults and caps the limit.
func (p *Pagination) Clean() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPageMeta(p Pagination, total int) PageMeta {
	return PageMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}
