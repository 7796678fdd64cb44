package usecase

import (
	"context"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
)

// WithdrawalUseCase drives the lifecycle of supply withdrawal requests.
type WithdrawalUseCase struct {
	withdrawals repository.WithdrawalRepository
	items       repository.ItemRepository
}

// NewWithdrawalUseCase constructs WithdrawalUseCase.
func NewWithdrawalUseCase(withdrawals repository.WithdrawalRepository, items repository.ItemRepository) *WithdrawalUseCase {
	return &WithdrawalUseCase{withdrawals: withdrawals, items: items}
}

// WithdrawalDetail pairs a request with its valuation at current prices and
// the advisory availability report.
type WithdrawalDetail struct {
	Request    *model.WithdrawalRequest
	TotalValue float64
	Shortfalls []model.Shortfall
}

// Create registers a new pending withdrawal request. Stock is not reserved;
// availability is only advisory until the admin confirmation.
func (u *WithdrawalUseCase) Create(ctx context.Context, principal model.Principal, lines []model.WithdrawalLine, note string) (*WithdrawalDetail, error) {
	if len(lines) == 0 {
		return nil, domainErrors.Validation("request must contain at least one line")
	}
	for i, line := range lines {
		if line.ItemID <= 0 {
			return nil, domainErrors.Validation("line %d: item id must be positive", i+1)
		}
		if line.Quantity <= 0 {
			return nil, domainErrors.Validation("line %d: quantity must be positive", i+1)
		}
	}

	known, err := u.items.GetByIDs(ctx, lineItemIDs(lines))
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if _, ok := known[line.ItemID]; !ok {
			return nil, domainErrors.Validation("item %d does not exist", line.ItemID)
		}
	}

	req, err := u.withdrawals.Create(ctx, &model.WithdrawalRequest{
		RequesterID: principal.UserID,
		Lines:       lines,
		Note:        note,
	})
	if err != nil {
		return nil, err
	}
	return u.detail(req, known), nil
}

// Get returns the request with its live valuation. Regular users only see
// their own requests.
func (u *WithdrawalUseCase) Get(ctx context.Context, principal model.Principal, id int64) (*WithdrawalDetail, error) {
	req, err := u.withdrawals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != principal.UserID && !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	items, err := u.items.GetByIDs(ctx, lineItemIDs(req.Lines))
	if err != nil {
		return nil, err
	}
	return u.detail(req, items), nil
}

// ListMine returns the caller's requests.
func (u *WithdrawalUseCase) ListMine(ctx context.Context, principal model.Principal, status *model.WithdrawalStatus, page, pageSize int) (*model.Page[model.WithdrawalRequest], error) {
	page, pageSize = normalizePage(page, pageSize)
	filter := repository.WithdrawalFilter{RequesterID: &principal.UserID, Status: status}
	return u.withdrawals.List(ctx, filter, page, pageSize)
}

// ListAll returns every request; admin only.
func (u *WithdrawalUseCase) ListAll(ctx context.Context, principal model.Principal, filter repository.WithdrawalFilter, page, pageSize int) (*model.Page[model.WithdrawalRequest], error) {
	if !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	page, pageSize = normalizePage(page, pageSize)
	return u.withdrawals.List(ctx, filter, page, pageSize)
}

// ConfirmUserTaken records that the requester physically took the supplies.
// Only the owner of a pending request may confirm, and only while current
// stock covers every line. The check is advisory; stock is decremented at the
// admin confirmation.
func (u *WithdrawalUseCase) ConfirmUserTaken(ctx context.Context, principal model.Principal, id int64) (*model.WithdrawalRequest, error) {
	req, err := u.withdrawals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.WithdrawalStatusPending {
		return nil, domainErrors.ErrInvalidTransition
	}
	if req.RequesterID != principal.UserID {
		return nil, domainErrors.ErrForbidden
	}
	items, err := u.items.GetByIDs(ctx, lineItemIDs(req.Lines))
	if err != nil {
		return nil, err
	}
	if shortfalls := availabilityShortfalls(req.Lines, items); len(shortfalls) > 0 {
		return nil, &domainErrors.InsufficientStockError{Shortfalls: shortfalls}
	}
	return u.withdrawals.MarkUserConfirmed(ctx, id)
}

// ConfirmAdmin finalizes a request and decrements the stock of every line
// in a single transaction. Admin only.
func (u *WithdrawalUseCase) ConfirmAdmin(ctx context.Context, principal model.Principal, id int64, note string) (*model.WithdrawalRequest, error) {
	req, err := u.withdrawals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.WithdrawalStatusUserConfirmed {
		return nil, domainErrors.ErrInvalidTransition
	}
	if !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	return u.withdrawals.ConfirmAdmin(ctx, id, principal.UserID, note)
}

// Cancel marks a non-final request cancelled. The owner and admins may
// cancel; confirmed requests stay confirmed.
func (u *WithdrawalUseCase) Cancel(ctx context.Context, principal model.Principal, id int64, reason string) (*model.WithdrawalRequest, error) {
	req, err := u.withdrawals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(model.WithdrawalStatusCancelled) {
		return nil, domainErrors.ErrInvalidTransition
	}
	if req.RequesterID != principal.UserID && !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	return u.withdrawals.Cancel(ctx, id, reason)
}

// CheckAvailability reports the shortfall set for a request without
// touching the stock.
func (u *WithdrawalUseCase) CheckAvailability(ctx context.Context, lines []model.WithdrawalLine) ([]model.Shortfall, error) {
	items, err := u.items.GetByIDs(ctx, lineItemIDs(lines))
	if err != nil {
		return nil, err
	}
	return availabilityShortfalls(lines, items), nil
}

func (u *WithdrawalUseCase) detail(req *model.WithdrawalRequest, items map[int64]*model.Item) *WithdrawalDetail {
	return &WithdrawalDetail{
		Request:    req,
		TotalValue: valuation(req.Lines, items),
		Shortfalls: availabilityShortfalls(req.Lines, items),
	}
}

// valuation prices the lines at the current unit values; lines whose item
// vanished from the ledger contribute nothing.
func valuation(lines []model.WithdrawalLine, items map[int64]*model.Item) float64 {
	var total float64
	for _, line := range lines {
		if item, ok := items[line.ItemID]; ok {
			total += float64(line.Quantity) * item.UnitValue
		}
	}
	return total
}

func availabilityShortfalls(lines []model.WithdrawalLine, items map[int64]*model.Item) []model.Shortfall {
	requested := make(map[int64]int64, len(lines))
	order := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, seen := requested[line.ItemID]; !seen {
			order = append(order, line.ItemID)
		}
		requested[line.ItemID] += line.Quantity
	}

	var shortfalls []model.Shortfall
	for _, itemID := range order {
		item, ok := items[itemID]
		if !ok {
			shortfalls = append(shortfalls, model.Shortfall{ItemID: itemID, Requested: requested[itemID]})
			continue
		}
		if item.Quantity < requested[itemID] {
			shortfalls = append(shortfalls, model.Shortfall{
				ItemID:      itemID,
				Description: item.Description,
				Requested:   requested[itemID],
				Available:   item.Quantity,
			})
		}
	}
	return shortfalls
}

func lineItemIDs(lines []model.WithdrawalLine) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		ids = append(ids, line.ItemID)
	}
	return ids
}
