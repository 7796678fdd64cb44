package dto

import "time"

// PurchaseLineRequest describes one desired item in a purchase request.
type PurchaseLineRequest struct {
	Category        string   `json:"category"`
	Level           string   `json:"level"`
	Description     string   `json:"description"`
	Branch          string   `json:"branch"`
	DesiredQuantity int64    `json:"desired_quantity"`
	EstimatedValue  *float64 `json:"estimated_value,omitempty"`
}

// PurchaseCreateRequest describes the creation payload.
type PurchaseCreateRequest struct {
	Lines         []PurchaseLineRequest `json:"lines"`
	Justification string                `json:"justification"`
	Priority      string                `json:"priority"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// PurchasedRequest records the actual purchase details.
type PurchasedRequest struct {
	Supplier  string   `json:"supplier"`
	TotalCost *float64 `json:"total_cost,omitempty"`
}

// PurchaseResponse describes a purchase request.
type PurchaseResponse struct {
	ID              int64                 `json:"id"`
	RequesterID     int64                 `json:"requester_id"`
	Lines           []PurchaseLineRequest `json:"lines"`
	Justification   string                `json:"justification,omitempty"`
	Priority        string                `json:"priority"`
	Status          string                `json:"status"`
	ReviewedBy      *int64                `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time            `json:"reviewed_at,omitempty"`
	AdminNote       string                `json:"admin_note,omitempty"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
	Supplier        string                `json:"supplier,omitempty"`
	TotalCost       *float64              `json:"total_cost,omitempty"`
	EstimatedTotal  float64               `json:"estimated_total"`
	PurchasedAt     *time.Time            `json:"purchased_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}
