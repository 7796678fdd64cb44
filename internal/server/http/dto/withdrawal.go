package dto

import "time"

// WithdrawalLineRequest describes one requested item line.
type WithdrawalLineRequest struct {
	ItemID   int64  `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// WithdrawalCreateRequest describes the creation payload.
type WithdrawalCreateRequest struct {
	Lines []WithdrawalLineRequest `json:"lines"`
	Note  string                  `json:"note"`
}

// ConfirmRequest carries the optional admin note on confirmation.
type ConfirmRequest struct {
	Note string `json:"note"`
}

// CancelRequest carries the cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// AvailabilityRequest asks whether current stock covers the given lines.
type AvailabilityRequest struct {
	Lines []WithdrawalLineRequest `json:"lines"`
}

// AvailabilityResponse reports whether stock covers the lines and which
// items fall short.
type AvailabilityResponse struct {
	Available  bool                `json:"available"`
	Shortfalls []ShortfallResponse `json:"shortfalls,omitempty"`
}

// ShortfallResponse reports one item whose stock cannot cover a request.
type ShortfallResponse struct {
	ItemID      int64  `json:"item_id"`
	Description string `json:"description,omitempty"`
	Requested   int64  `json:"requested"`
	Available   int64  `json:"available"`
}

// WithdrawalResponse describes a withdrawal request.
type WithdrawalResponse struct {
	ID               int64                   `json:"id"`
	RequesterID      int64                   `json:"requester_id"`
	Lines            []WithdrawalLineRequest `json:"lines"`
	Status           string                  `json:"status"`
	Note             string                  `json:"note,omitempty"`
	UserConfirmedAt  *time.Time              `json:"user_confirmed_at,omitempty"`
	AdminConfirmedBy *int64                  `json:"admin_confirmed_by,omitempty"`
	AdminConfirmedAt *time.Time              `json:"admin_confirmed_at,omitempty"`
	AdminNote        string                  `json:"admin_note,omitempty"`
	CancelReason     string                  `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// WithdrawalDetailResponse adds live valuation and availability.
type WithdrawalDetailResponse struct {
	WithdrawalResponse
	TotalValue float64             `json:"total_value"`
	Shortfalls []ShortfallResponse `json:"shortfalls,omitempty"`
}
