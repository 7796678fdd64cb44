package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
)

// PurchaseUseCase drives restock purchase requests.
type PurchaseUseCase struct {
	purchases repository.PurchaseRepository
}

// NewPurchaseUseCase constructs PurchaseUseCase.
func NewPurchaseUseCase(purchases repository.PurchaseRepository) *PurchaseUseCase {
	return &PurchaseUseCase{purchases: purchases}
}

// Create registers a new pending purchase request. Priority defaults to
// medium when not given.
func (u *PurchaseUseCase) Create(ctx context.Context, principal model.Principal, lines []model.PurchaseLine, justification string, priority model.PurchasePriority) (*model.PurchaseRequest, error) {
	if len(lines) == 0 {
		return nil, domainErrors.Validation("request must contain at least one line")
	}
	for i := range lines {
		lines[i].Description = strings.TrimSpace(lines[i].Description)
		if lines[i].Level == "" {
			lines[i].Level = model.ItemLevelNone
		}
		if !model.ValidCategory(lines[i].Category) {
			return nil, domainErrors.Validation("line %d: unknown item category %q", i+1, lines[i].Category)
		}
		if !model.ValidLevel(lines[i].Level) {
			return nil, domainErrors.Validation("line %d: unknown item level %q", i+1, lines[i].Level)
		}
		if lines[i].Description == "" {
			return nil, domainErrors.Validation("line %d: description must not be empty", i+1)
		}
		if lines[i].DesiredQuantity <= 0 {
			return nil, domainErrors.Validation("line %d: desired quantity must be positive", i+1)
		}
		if !model.ValidBranch(lines[i].Branch) {
			return nil, domainErrors.Validation("line %d: unknown branch %q", i+1, lines[i].Branch)
		}
	}
	if priority == "" {
		priority = model.PurchasePriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, domainErrors.Validation("unknown priority %q", priority)
	}

	return u.purchases.Create(ctx, &model.PurchaseRequest{
		RequesterID:   principal.UserID,
		Lines:         lines,
		Justification: strings.TrimSpace(justification),
		Priority:      priority,
	})
}

// Get returns a purchase request; users only see their own.
func (u *PurchaseUseCase) Get(ctx context.Context, principal model.Principal, id int64) (*model.PurchaseRequest, error) {
	req, err := u.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != principal.UserID && !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	return req, nil
}

// ListMine returns the caller's purchase requests.
func (u *PurchaseUseCase) ListMine(ctx context.Context, principal model.Principal, status *model.PurchaseStatus, page, pageSize int) (*model.Page[model.PurchaseRequest], error) {
	page, pageSize = normalizePage(page, pageSize)
	filter := repository.PurchaseFilter{RequesterID: &principal.UserID, Status: status}
	return u.purchases.List(ctx, filter, page, pageSize)
}

// ListAll returns every purchase request; admin only.
func (u *PurchaseUseCase) ListAll(ctx context.Context, principal model.Principal, filter repository.PurchaseFilter, page, pageSize int) (*model.Page[model.PurchaseRequest], error) {
	if !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	page, pageSize = normalizePage(page, pageSize)
	return u.purchases.List(ctx, filter, page, pageSize)
}

// Approve moves a pending request to approved. Admin only.
func (u *PurchaseUseCase) Approve(ctx context.Context, principal model.Principal, id int64, adminNote string) (*model.PurchaseRequest, error) {
	if !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	return u.purchases.Review(ctx, id, principal.UserID, model.PurchaseStatusApproved, adminNote, "")
}

// Reject moves a pending request to rejected with a mandatory reason.
func (u *PurchaseUseCase) Reject(ctx context.Context, principal model.Principal, id int64, reason string) (*model.PurchaseRequest, error) {
	if !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domainErrors.Validation("rejection reason must not be empty")
	}
	return u.purchases.Review(ctx, id, principal.UserID, model.PurchaseStatusRejected, "", reason)
}

// MarkPurchased records that an approved request was actually bought.
func (u *PurchaseUseCase) MarkPurchased(ctx context.Context, principal model.Principal, id int64, supplier string, totalCost *float64) (*model.PurchaseRequest, error) {
	if !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	if totalCost != nil && *totalCost < 0 {
		return nil, domainErrors.Validation("total cost must not be negative")
	}
	return u.purchases.MarkPurchased(ctx, id, strings.TrimSpace(supplier), totalCost)
}
