package model

import "time"

// WithdrawalStatus describes the withdrawal request lifecycle.
type WithdrawalStatus string

const (
	WithdrawalStatusPending        WithdrawalStatus = "pending"
	WithdrawalStatusUserConfirmed  WithdrawalStatus = "user_confirmed_taken"
	WithdrawalStatusAdminConfirmed WithdrawalStatus = "admin_confirmed"
	WithdrawalStatusCancelled      WithdrawalStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from the status.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalStatusAdminConfirmed || s == WithdrawalStatusCancelled
}

// CanTransitionTo reports whether moving to next is a legal edge. The status
// only advances forward; cancellation is reachable from pending and
// user_confirmed_taken but never from admin_confirmed.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalStatusPending:
		return next == WithdrawalStatusUserConfirmed || next == WithdrawalStatusCancelled
	case WithdrawalStatusUserConfirmed:
		return next == WithdrawalStatusAdminConfirmed || next == WithdrawalStatusCancelled
	}
	return false
}

// WithdrawalLine is one requested item with its desired quantity. The line
// set of a request is fixed after creation.
type WithdrawalLine struct {
	ItemID   int64  `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// WithdrawalRequest is a request by a user to remove stock items.
type WithdrawalRequest struct {
	ID               int64
	RequesterID      int64
	Lines            []WithdrawalLine
	Status           WithdrawalStatus
	Note             string
	UserConfirmedAt  *time.Time
	AdminConfirmedBy *int64
	AdminConfirmedAt *time.Time
	AdminNote        string
	CancelReason     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Shortfall describes one line whose requested quantity exceeds current stock.
type Shortfall struct {
	ItemID      int64  `json:"item_id"`
	Description string `json:"description"`
	Requested   int64  `json:"requested"`
	Available   int64  `json:"available"`
}
