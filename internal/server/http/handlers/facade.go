package handlers

import (
	"context"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (model.Principal, error)
	Profile(ctx context.Context, id int64) (*model.User, error)
}

// ItemFacade encapsulates ledger operations exposed via HTTP.
type ItemFacade interface {
	CreateItem(ctx context.Context, principal model.Principal, in usecase.ItemInput) (*model.Item, error)
	Item(ctx context.Context, id int64) (*model.Item, error)
	Items(ctx context.Context, filter repository.ItemFilter, page, pageSize int) (*model.Page[model.Item], error)
	UpdateItem(ctx context.Context, principal model.Principal, id int64, in usecase.ItemInput) (*model.Item, error)
	DeleteItem(ctx context.Context, principal model.Principal, id int64) error
}

// WithdrawalFacade drives withdrawal request endpoints.
type WithdrawalFacade interface {
	CreateWithdrawal(ctx context.Context, principal model.Principal, lines []model.WithdrawalLine, note string) (*usecase.WithdrawalDetail, error)
	Withdrawal(ctx context.Context, principal model.Principal, id int64) (*usecase.WithdrawalDetail, error)
	MyWithdrawals(ctx context.Context, principal model.Principal, status *model.WithdrawalStatus, page, pageSize int) (*model.Page[model.WithdrawalRequest], error)
	AllWithdrawals(ctx context.Context, principal model.Principal, filter repository.WithdrawalFilter, page, pageSize int) (*model.Page[model.WithdrawalRequest], error)
	ConfirmTaken(ctx context.Context, principal model.Principal, id int64) (*model.WithdrawalRequest, error)
	ConfirmWithdrawal(ctx context.Context, principal model.Principal, id int64, note string) (*model.WithdrawalRequest, error)
	CancelWithdrawal(ctx context.Context, principal model.Principal, id int64, reason string) (*model.WithdrawalRequest, error)
	CheckAvailability(ctx context.Context, lines []model.WithdrawalLine) ([]model.Shortfall, error)
}

// PurchaseFacade drives purchase request endpoints.
type PurchaseFacade interface {
	CreatePurchase(ctx context.Context, principal model.Principal, lines []model.PurchaseLine, justification string, priority model.PurchasePriority) (*model.PurchaseRequest, error)
	Purchase(ctx context.Context, principal model.Principal, id int64) (*model.PurchaseRequest, error)
	MyPurchases(ctx context.Context, principal model.Principal, status *model.PurchaseStatus, page, pageSize int) (*model.Page[model.PurchaseRequest], error)
	AllPurchases(ctx context.Context, principal model.Principal, filter repository.PurchaseFilter, page, pageSize int) (*model.Page[model.PurchaseRequest], error)
	ApprovePurchase(ctx context.Context, principal model.Principal, id int64, adminNote string) (*model.PurchaseRequest, error)
	RejectPurchase(ctx context.Context, principal model.Principal, id int64, reason string) (*model.PurchaseRequest, error)
	MarkPurchaseBought(ctx context.Context, principal model.Principal, id int64, supplier string, totalCost *float64) (*model.PurchaseRequest, error)
}

// InventoryFacade aggregates the full set of operations used across handlers.
type InventoryFacade interface {
	AuthFacade
	ItemFacade
	WithdrawalFacade
	PurchaseFacade
}
