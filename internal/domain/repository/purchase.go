package repository

import (
	"context"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
)

// PurchaseFilter narrows purchase request listings. Nil fields are ignored.
type PurchaseFilter struct {
	RequesterID *int64
	Status      *model.PurchaseStatus
	Priority    *model.PurchasePriority
}

// PurchaseRepository persists purchase requests. Review and MarkPurchased are
// status-guarded in the store; none of them touch item stock.
type PurchaseRepository interface {
	Create(ctx context.Context, req *model.PurchaseRequest) (*model.PurchaseRequest, error)
	GetByID(ctx context.Context, id int64) (*model.PurchaseRequest, error)
	List(ctx context.Context, filter PurchaseFilter, page, pageSize int) (*model.Page[model.PurchaseRequest], error)

	// Review moves pending -> approved or rejected, stamping reviewer and
	// review time once.
	Review(ctx context.Context, id, adminID int64, status model.PurchaseStatus, adminNote, rejectionReason string) (*model.PurchaseRequest, error)

	// MarkPurchased moves approved -> purchased and records supplier and cost.
	MarkPurchased(ctx context.Context, id int64, supplier string, totalCost *float64) (*model.PurchaseRequest, error)
}
