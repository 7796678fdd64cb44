package model

// Page carries one page of a listing plus pagination metadata.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
}

// NewPage builds a page and derives the page count from the total.
func NewPage[T any](items []T, page, pageSize int, total int64) *Page[T] {
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return &Page[T]{Items: items, Page: page, PageSize: pageSize, TotalItems: total, TotalPages: pages}
}
