package app

import (
	"context"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

// InventoryFacade exposes the whole application surface to transports.
type InventoryFacade struct {
	auth        *usecase.AuthUseCase
	items       *usecase.ItemUseCase
	withdrawals *usecase.WithdrawalUseCase
	purchases   *usecase.PurchaseUseCase
}

// NewInventoryFacade constructs InventoryFacade.
func NewInventoryFacade(auth *usecase.AuthUseCase, items *usecase.ItemUseCase, withdrawals *usecase.WithdrawalUseCase, purchases *usecase.PurchaseUseCase) *InventoryFacade {
	return &InventoryFacade{auth: auth, items: items, withdrawals: withdrawals, purchases: purchases}
}

func (f *InventoryFacade) Register(ctx context.Context, in usecase.RegisterInput) (*model.User, string, error) {
	return f.auth.Register(ctx, in)
}

func (f *InventoryFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *InventoryFacade) ParseToken(token string) (model.Principal, error) {
	return f.auth.ParseToken(token)
}

func (f *InventoryFacade) Profile(ctx context.Context, id int64) (*model.User, error) {
	return f.auth.GetByID(ctx, id)
}

func (f *InventoryFacade) CreateItem(ctx context.Context, principal model.Principal, in usecase.ItemInput) (*model.Item, error) {
	return f.items.Create(ctx, principal, in)
}

func (f *InventoryFacade) Item(ctx context.Context, id int64) (*model.Item, error) {
	return f.items.Get(ctx, id)
}

func (f *InventoryFacade) Items(ctx context.Context, filter repository.ItemFilter, page, pageSize int) (*model.Page[model.Item], error) {
	return f.items.List(ctx, filter, page, pageSize)
}

func (f *InventoryFacade) UpdateItem(ctx context.Context, principal model.Principal, id int64, in usecase.ItemInput) (*model.Item, error) {
	return f.items.Update(ctx, principal, id, in)
}

func (f *InventoryFacade) DeleteItem(ctx context.Context, principal model.Principal, id int64) error {
	return f.items.Delete(ctx, principal, id)
}

func (f *InventoryFacade) CreateWithdrawal(ctx context.Context, principal model.Principal, lines []model.WithdrawalLine, note string) (*usecase.WithdrawalDetail, error) {
	return f.withdrawals.Create(ctx, principal, lines, note)
}

func (f *InventoryFacade) Withdrawal(ctx context.Context, principal model.Principal, id int64) (*usecase.WithdrawalDetail, error) {
	return f.withdrawals.Get(ctx, principal, id)
}

func (f *InventoryFacade) MyWithdrawals(ctx context.Context, principal model.Principal, status *model.WithdrawalStatus, page, pageSize int) (*model.Page[model.WithdrawalRequest], error) {
	return f.withdrawals.ListMine(ctx, principal, status, page, pageSize)
}

func (f *InventoryFacade) AllWithdrawals(ctx context.Context, principal model.Principal, filter repository.WithdrawalFilter, page, pageSize int) (*model.Page[model.WithdrawalRequest], error) {
	return f.withdrawals.ListAll(ctx, principal, filter, page, pageSize)
}

func (f *InventoryFacade) ConfirmTaken(ctx context.Context, principal model.Principal, id int64) (*model.WithdrawalRequest, error) {
	return f.withdrawals.ConfirmUserTaken(ctx, principal, id)
}

func (f *InventoryFacade) ConfirmWithdrawal(ctx context.Context, principal model.Principal, id int64, note string) (*model.WithdrawalRequest, error) {
	return f.withdrawals.ConfirmAdmin(ctx, principal, id, note)
}

func (f *InventoryFacade) CancelWithdrawal(ctx context.Context, principal model.Principal, id int64, reason string) (*model.WithdrawalRequest, error) {
	return f.withdrawals.Cancel(ctx, principal, id, reason)
}

func (f *InventoryFacade) CheckAvailability(ctx context.Context, lines []model.WithdrawalLine) ([]model.Shortfall, error) {
	return f.withdrawals.CheckAvailability(ctx, lines)
}

func (f *InventoryFacade) CreatePurchase(ctx context.Context, principal model.Principal, lines []model.PurchaseLine, justification string, priority model.PurchasePriority) (*model.PurchaseRequest, error) {
	return f.purchases.Create(ctx, principal, lines, justification, priority)
}

func (f *InventoryFacade) Purchase(ctx context.Context, principal model.Principal, id int64) (*model.PurchaseRequest, error) {
	return f.purchases.Get(ctx, principal, id)
}

func (f *InventoryFacade) MyPurchases(ctx context.Context, principal model.Principal, status *model.PurchaseStatus, page, pageSize int) (*model.Page[model.PurchaseRequest], error) {
	return f.purchases.ListMine(ctx, principal, status, page, pageSize)
}

func (f *InventoryFacade) AllPurchases(ctx context.Context, principal model.Principal, filter repository.PurchaseFilter, page, pageSize int) (*model.Page[model.PurchaseRequest], error) {
	return f.purchases.ListAll(ctx, principal, filter, page, pageSize)
}

func (f *InventoryFacade) ApprovePurchase(ctx context.Context, principal model.Principal, id int64, adminNote string) (*model.PurchaseRequest, error) {
	return f.purchases.Approve(ctx, principal, id, adminNote)
}

func (f *InventoryFacade) RejectPurchase(ctx context.Context, principal model.Principal, id int64, reason string) (*model.PurchaseRequest, error) {
	return f.purchases.Reject(ctx, principal, id, reason)
}

func (f *InventoryFacade) MarkPurchaseBought(ctx context.Context, principal model.Principal, id int64, supplier string, totalCost *float64) (*model.PurchaseRequest, error) {
	return f.purchases.MarkPurchased(ctx, principal, id, supplier, totalCost)
}
