package model

import "time"

// PurchasePriority expresses how urgently the requested items are needed.
type PurchasePriority string

const (
	PurchasePriorityLow    PurchasePriority = "low"
	PurchasePriorityMedium PurchasePriority = "medium"
	PurchasePriorityHigh   PurchasePriority = "high"
	PurchasePriorityUrgent PurchasePriority = "urgent"
)

// ValidPriority reports whether the priority is one of the known values.
func ValidPriority(p PurchasePriority) bool {
	switch p {
	case PurchasePriorityLow, PurchasePriorityMedium, PurchasePriorityHigh, PurchasePriorityUrgent:
		return true
	}
	return false
}

// PurchaseStatus describes the purchase request workflow. Approving or
// rejecting has no stock side effect; stock only changes when purchased items
// are registered through the item catalog.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusApproved  PurchaseStatus = "approved"
	PurchaseStatusRejected  PurchaseStatus = "rejected"
	PurchaseStatusPurchased PurchaseStatus = "purchased"
)

// PurchaseLine describes one wished item. It references no catalog entry;
// the item may not exist in stock yet.
type PurchaseLine struct {
	Category        ItemCategory `json:"category"`
	Level           ItemLevel    `json:"level"`
	Description     string       `json:"description"`
	Branch          Branch       `json:"branch"`
	DesiredQuantity int64        `json:"desired_quantity"`
	EstimatedValue  *float64     `json:"estimated_value,omitempty"`
}

// PurchaseRequest is a request to buy new stock.
type PurchaseRequest struct {
	ID              int64
	RequesterID     int64
	Lines           []PurchaseLine
	Justification   string
	Priority        PurchasePriority
	Status          PurchaseStatus
	ReviewedBy      *int64
	ReviewedAt      *time.Time
	AdminNote       string
	RejectionReason string
	Supplier        string
	TotalCost       *float64
	PurchasedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EstimatedTotal sums estimated value times desired quantity over the lines
// that carry an estimate.
func (p *PurchaseRequest) EstimatedTotal() float64 {
	var total float64
	for _, line := range p.Lines {
		if line.EstimatedValue != nil {
			total += *line.EstimatedValue * float64(line.DesiredQuantity)
		}
	}
	return total
}
