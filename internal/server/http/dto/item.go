package dto

import "time"

// ItemRequest describes the create/update payload for a supply item.
type ItemRequest struct {
	Category    string  `json:"category"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
	Quantity    int64   `json:"quantity"`
	UnitValue   float64 `json:"unit_value"`
	Branch      string  `json:"branch"`
}

// ItemResponse describes a supply item.
type ItemResponse struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Level       string    `json:"level"`
	Description string    `json:"description"`
	Quantity    int64     `json:"quantity"`
	UnitValue   float64   `json:"unit_value"`
	TotalValue  float64   `json:"total_value"`
	Branch      string    `json:"branch"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PageResponse wraps a paginated collection.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}
