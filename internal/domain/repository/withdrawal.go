package repository

import (
	"context"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
)

// WithdrawalFilter narrows withdrawal request listings. Nil fields are ignored.
type WithdrawalFilter struct {
	RequesterID *int64
	Status      *model.WithdrawalStatus
}

// WithdrawalRepository persists withdrawal requests. The transition methods
// own the status-guarded writes: each one applies only when the stored status
// still permits the transition, so concurrent callers resolve
// first-write-wins inside the store.
type WithdrawalRepository interface {
	Create(ctx context.Context, req *model.WithdrawalRequest) (*model.WithdrawalRequest, error)
	GetByID(ctx context.Context, id int64) (*model.WithdrawalRequest, error)
	List(ctx context.Context, filter WithdrawalFilter, page, pageSize int) (*model.Page[model.WithdrawalRequest], error)

	// MarkUserConfirmed moves pending -> user_confirmed_taken and stamps
	// user_confirmed_at once.
	MarkUserConfirmed(ctx context.Context, id int64) (*model.WithdrawalRequest, error)

	// ConfirmAdmin runs the atomic block of the admin confirmation: inside a
	// single transaction it re-checks availability, decrements every line's
	// stock and commits status admin_confirmed with the audit fields. Any
	// shortfall or fault rolls the whole transition back.
	ConfirmAdmin(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error)

	// Cancel moves pending or user_confirmed_taken -> cancelled. No stock
	// effect; nothing was decremented before this point.
	Cancel(ctx context.Context, id int64, reason string) (*model.WithdrawalRequest, error)
}
