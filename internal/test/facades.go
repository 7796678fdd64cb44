package test

import (
	"context"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, usecase.RegisterInput) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (model.Principal, error)
	ProfileFn      func(context.Context, int64) (*model.User, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, in usecase.RegisterInput) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return &model.User{ID: 1, Name: in.Name, Email: in.Email, Role: model.RoleUser, Active: true}, "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: 1, Email: email, Role: model.RoleUser, Active: true}, "token", nil
}

// ParseToken returns the stored principal for the authenticated caller.
func (s AuthFacadeStub) ParseToken(token string) (model.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.Principal{UserID: 1, Role: model.RoleUser}, nil
}

// Profile returns the caller's account.
func (s AuthFacadeStub) Profile(ctx context.Context, id int64) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, id)
	}
	return &model.User{ID: id, Role: model.RoleUser, Active: true}, nil
}

// ItemFacadeStub provides controllable behaviour for item endpoints.
type ItemFacadeStub struct {
	CreateFn func(context.Context, model.Principal, usecase.ItemInput) (*model.Item, error)
	GetFn    func(context.Context, int64) (*model.Item, error)
	ListFn   func(context.Context, repository.ItemFilter, int, int) (*model.Page[model.Item], error)
	UpdateFn func(context.Context, model.Principal, int64, usecase.ItemInput) (*model.Item, error)
	DeleteFn func(context.Context, model.Principal, int64) error
}

func (s ItemFacadeStub) CreateItem(ctx context.Context, principal model.Principal, in usecase.ItemInput) (*model.Item, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, principal, in)
	}
	return &model.Item{ID: 1, Category: in.Category, Description: in.Description, Quantity: in.Quantity}, nil
}

func (s ItemFacadeStub) Item(ctx context.Context, id int64) (*model.Item, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Item{ID: id, Category: model.ItemCategoryBadge, Description: "scarf", Branch: model.BranchScout}, nil
}

func (s ItemFacadeStub) Items(ctx context.Context, filter repository.ItemFilter, page, pageSize int) (*model.Page[model.Item], error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter, page, pageSize)
	}
	return model.NewPage([]model.Item{{ID: 1}}, page, pageSize, 1), nil
}

func (s ItemFacadeStub) UpdateItem(ctx context.Context, principal model.Principal, id int64, in usecase.ItemInput) (*model.Item, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, principal, id, in)
	}
	return &model.Item{ID: id, Category: in.Category, Description: in.Description}, nil
}

func (s ItemFacadeStub) DeleteItem(ctx context.Context, principal model.Principal, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, principal, id)
	}
	return nil
}

// WithdrawalFacadeStub provides controllable behaviour for withdrawal
// endpoints.
type WithdrawalFacadeStub struct {
	CreateFn       func(context.Context, model.Principal, []model.WithdrawalLine, string) (*usecase.WithdrawalDetail, error)
	GetFn          func(context.Context, model.Principal, int64) (*usecase.WithdrawalDetail, error)
	MineFn         func(context.Context, model.Principal, *model.WithdrawalStatus, int, int) (*model.Page[model.WithdrawalRequest], error)
	AllFn          func(context.Context, model.Principal, repository.WithdrawalFilter, int, int) (*model.Page[model.WithdrawalRequest], error)
	ConfirmTakenFn func(context.Context, model.Principal, int64) (*model.WithdrawalRequest, error)
	ConfirmFn      func(context.Context, model.Principal, int64, string) (*model.WithdrawalRequest, error)
	CancelFn       func(context.Context, model.Principal, int64, string) (*model.WithdrawalRequest, error)
	AvailabilityFn func(context.Context, []model.WithdrawalLine) ([]model.Shortfall, error)
}

func defaultWithdrawalDetail(id int64, requesterID int64) *usecase.WithdrawalDetail {
	return &usecase.WithdrawalDetail{
		Request: &model.WithdrawalRequest{
			ID:          id,
			RequesterID: requesterID,
			Status:      model.WithdrawalStatusPending,
			Lines:       []model.WithdrawalLine{{ItemID: 1, Quantity: 1}},
		},
	}
}

func (s WithdrawalFacadeStub) CreateWithdrawal(ctx context.Context, principal model.Principal, lines []model.WithdrawalLine, note string) (*usecase.WithdrawalDetail, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, principal, lines, note)
	}
	return defaultWithdrawalDetail(1, principal.UserID), nil
}

func (s WithdrawalFacadeStub) Withdrawal(ctx context.Context, principal model.Principal, id int64) (*usecase.WithdrawalDetail, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, principal, id)
	}
	return defaultWithdrawalDetail(id, principal.UserID), nil
}

func (s WithdrawalFacadeStub) MyWithdrawals(ctx context.Context, principal model.Principal, status *model.WithdrawalStatus, page, pageSize int) (*model.Page[model.WithdrawalRequest], error) {
	if s.MineFn != nil {
		return s.MineFn(ctx, principal, status, page, pageSize)
	}
	return model.NewPage([]model.WithdrawalRequest{{ID: 1, RequesterID: principal.UserID}}, page, pageSize, 1), nil
}

func (s WithdrawalFacadeStub) AllWithdrawals(ctx context.Context, principal model.Principal, filter repository.WithdrawalFilter, page, pageSize int) (*model.Page[model.WithdrawalRequest], error) {
	if s.AllFn != nil {
		return s.AllFn(ctx, principal, filter, page, pageSize)
	}
	return model.NewPage([]model.WithdrawalRequest{{ID: 1}}, page, pageSize, 1), nil
}

func (s WithdrawalFacadeStub) ConfirmTaken(ctx context.Context, principal model.Principal, id int64) (*model.WithdrawalRequest, error) {
	if s.ConfirmTakenFn != nil {
		return s.ConfirmTakenFn(ctx, principal, id)
	}
	return &model.WithdrawalRequest{ID: id, Status: model.WithdrawalStatusUserConfirmed}, nil
}

func (s WithdrawalFacadeStub) ConfirmWithdrawal(ctx context.Context, principal model.Principal, id int64, note string) (*model.WithdrawalRequest, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, principal, id, note)
	}
	return &model.WithdrawalRequest{ID: id, Status: model.WithdrawalStatusAdminConfirmed}, nil
}

func (s WithdrawalFacadeStub) CancelWithdrawal(ctx context.Context, principal model.Principal, id int64, reason string) (*model.WithdrawalRequest, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, principal, id, reason)
	}
	return &model.WithdrawalRequest{ID: id, Status: model.WithdrawalStatusCancelled, CancelReason: reason}, nil
}

func (s WithdrawalFacadeStub) CheckAvailability(ctx context.Context, lines []model.WithdrawalLine) ([]model.Shortfall, error) {
	if s.AvailabilityFn != nil {
		return s.AvailabilityFn(ctx, lines)
	}
	return nil, nil
}

// PurchaseFacadeStub provides controllable behaviour for purchase endpoints.
type PurchaseFacadeStub struct {
	CreateFn  func(context.Context, model.Principal, []model.PurchaseLine, string, model.PurchasePriority) (*model.PurchaseRequest, error)
	GetFn     func(context.Context, model.Principal, int64) (*model.PurchaseRequest, error)
	MineFn    func(context.Context, model.Principal, *model.PurchaseStatus, int, int) (*model.Page[model.PurchaseRequest], error)
	AllFn     func(context.Context, model.Principal, repository.PurchaseFilter, int, int) (*model.Page[model.PurchaseRequest], error)
	ApproveFn func(context.Context, model.Principal, int64, string) (*model.PurchaseRequest, error)
	RejectFn  func(context.Context, model.Principal, int64, string) (*model.PurchaseRequest, error)
	BoughtFn  func(context.Context, model.Principal, int64, string, *float64) (*model.PurchaseRequest, error)
}

func (s PurchaseFacadeStub) CreatePurchase(ctx context.Context, principal model.Principal, lines []model.PurchaseLine, justification string, priority model.PurchasePriority) (*model.PurchaseRequest, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, principal, lines, justification, priority)
	}
	return &model.PurchaseRequest{ID: 1, RequesterID: principal.UserID, Status: model.PurchaseStatusPending, Priority: priority}, nil
}

func (s PurchaseFacadeStub) Purchase(ctx context.Context, principal model.Principal, id int64) (*model.PurchaseRequest, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, principal, id)
	}
	return &model.PurchaseRequest{ID: id, RequesterID: principal.UserID, Status: model.PurchaseStatusPending}, nil
}

func (s PurchaseFacadeStub) MyPurchases(ctx context.Context, principal model.Principal, status *model.PurchaseStatus, page, pageSize int) (*model.Page[model.PurchaseRequest], error) {
	if s.MineFn != nil {
		return s.MineFn(ctx, principal, status, page, pageSize)
	}
	return model.NewPage([]model.PurchaseRequest{{ID: 1, RequesterID: principal.UserID}}, page, pageSize, 1), nil
}

func (s PurchaseFacadeStub) AllPurchases(ctx context.Context, principal model.Principal, filter repository.PurchaseFilter, page, pageSize int) (*model.Page[model.PurchaseRequest], error) {
	if s.AllFn != nil {
		return s.AllFn(ctx, principal, filter, page, pageSize)
	}
	return model.NewPage([]model.PurchaseRequest{{ID: 1}}, page, pageSize, 1), nil
}

func (s PurchaseFacadeStub) ApprovePurchase(ctx context.Context, principal model.Principal, id int64, adminNote string) (*model.PurchaseRequest, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, principal, id, adminNote)
	}
	return &model.PurchaseRequest{ID: id, Status: model.PurchaseStatusApproved}, nil
}

func (s PurchaseFacadeStub) RejectPurchase(ctx context.Context, principal model.Principal, id int64, reason string) (*model.PurchaseRequest, error) {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, principal, id, reason)
	}
	return &model.PurchaseRequest{ID: id, Status: model.PurchaseStatusRejected, RejectionReason: reason}, nil
}

func (s PurchaseFacadeStub) MarkPurchaseBought(ctx context.Context, principal model.Principal, id int64, supplier string, totalCost *float64) (*model.PurchaseRequest, error) {
	if s.BoughtFn != nil {
		return s.BoughtFn(ctx, principal, id, supplier, totalCost)
	}
	return &model.PurchaseRequest{ID: id, Status: model.PurchaseStatusPurchased, Supplier: supplier, TotalCost: totalCost}, nil
}

// InventoryFacadeStub aggregates facade dependencies for HTTP layer tests.
type InventoryFacadeStub struct {
	AuthFacadeStub
	ItemFacadeStub
	WithdrawalFacadeStub
	PurchaseFacadeStub
}
