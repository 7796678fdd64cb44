package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu      sync.Mutex
	ByEmail map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[int64]*model.User),
		Next:    1,
	}
}

// Create registers user unless the email is taken or the stub carries an
// explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ByEmail[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := *user
	stored.ID = s.Next
	stored.Active = true
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Next++
	s.ByEmail[stored.Email] = &stored
	s.ByID[stored.ID] = &stored
	return &stored, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// TouchLastLogin stamps the stored user's last login time.
func (s *UserRepositoryStub) TouchLastLogin(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

// ItemRepositoryStub keeps items in-memory with the same conditional
// decrement semantics as the real store.
type ItemRepositoryStub struct {
	mu    sync.Mutex
	Items map[int64]*model.Item
	Next  int64
	Err   error
}

// NewItemRepositoryStub constructs the stub with initialized state.
func NewItemRepositoryStub() *ItemRepositoryStub {
	return &ItemRepositoryStub{Items: make(map[int64]*model.Item), Next: 1}
}

// Seed inserts an item directly, assigning the next identifier.
func (s *ItemRepositoryStub) Seed(item model.Item) *model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.Next
	item.RecalculateTotal()
	s.Next++
	s.Items[item.ID] = &item
	return &item
}

func (s *ItemRepositoryStub) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Seed(*item), nil
}

func (s *ItemRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.Items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ItemRepositoryStub) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Item, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[int64]*model.Item, len(ids))
	for _, id := range ids {
		if item, ok := s.Items[id]; ok {
			copied := *item
			result[id] = &copied
		}
	}
	return result, nil
}

func (s *ItemRepositoryStub) List(ctx context.Context, filter repository.ItemFilter, page, pageSize int) (*model.Page[model.Item], error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]model.Item, 0, len(s.Items))
	for id := int64(1); id < s.Next; id++ {
		item, ok := s.Items[id]
		if !ok {
			continue
		}
		if filter.Category != nil && item.Category != *filter.Category {
			continue
		}
		if filter.Level != nil && item.Level != *filter.Level {
			continue
		}
		if filter.Branch != nil && item.Branch != *filter.Branch {
			continue
		}
		matched = append(matched, *item)
	}
	return paginate(matched, page, pageSize), nil
}

func (s *ItemRepositoryStub) Update(ctx context.Context, item *model.Item) (*model.Item, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Items[item.ID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	stored := *item
	stored.RecalculateTotal()
	s.Items[item.ID] = &stored
	copied := stored
	return &copied, nil
}

func (s *ItemRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Items[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Items, id)
	return nil
}

// DecrementStock applies the decrement only when the current quantity covers
// the amount, mirroring the store's conditional update.
func (s *ItemRepositoryStub) DecrementStock(ctx context.Context, itemID, amount int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decrementLocked(itemID, amount)
}

func (s *ItemRepositoryStub) decrementLocked(itemID, amount int64) error {
	item, ok := s.Items[itemID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if item.Quantity < amount {
		return &domainErrors.InsufficientStockError{Shortfalls: []model.Shortfall{
			{ItemID: itemID, Description: item.Description, Requested: amount, Available: item.Quantity},
		}}
	}
	item.Quantity -= amount
	item.RecalculateTotal()
	return nil
}

// Quantity reads the current stock level of an item.
func (s *ItemRepositoryStub) Quantity(itemID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.Items[itemID]; ok {
		return item.Quantity
	}
	return 0
}

// WithdrawalRepositoryStub keeps withdrawal requests in-memory and enforces
// the same status guards as the real store. ConfirmAdmin decrements stock
// through the attached item stub all-or-nothing under one lock, so
// concurrent confirms resolve first-write-wins.
type WithdrawalRepositoryStub struct {
	mu       sync.Mutex
	Requests map[int64]*model.WithdrawalRequest
	Next     int64
	Items    *ItemRepositoryStub
	Err      error
}

// NewWithdrawalRepositoryStub constructs the stub bound to an item stub.
func NewWithdrawalRepositoryStub(items *ItemRepositoryStub) *WithdrawalRepositoryStub {
	return &WithdrawalRepositoryStub{
		Requests: make(map[int64]*model.WithdrawalRequest),
		Next:     1,
		Items:    items,
	}
}

func (s *WithdrawalRepositoryStub) Create(ctx context.Context, req *model.WithdrawalRequest) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *req
	stored.ID = s.Next
	stored.Status = model.WithdrawalStatusPending
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Next++
	s.Requests[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (s *WithdrawalRepositoryStub) GetByID(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req, ok := s.Requests[id]; ok {
		copied := *req
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *WithdrawalRepositoryStub) List(ctx context.Context, filter repository.WithdrawalFilter, page, pageSize int) (*model.Page[model.WithdrawalRequest], error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]model.WithdrawalRequest, 0, len(s.Requests))
	for id := int64(1); id < s.Next; id++ {
		req, ok := s.Requests[id]
		if !ok {
			continue
		}
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		matched = append(matched, *req)
	}
	return paginate(matched, page, pageSize), nil
}

func (s *WithdrawalRepositoryStub) MarkUserConfirmed(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.Requests[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if req.Status != model.WithdrawalStatusPending {
		return nil, domainErrors.ErrInvalidTransition
	}
	now := time.Now()
	req.Status = model.WithdrawalStatusUserConfirmed
	if req.UserConfirmedAt == nil {
		req.UserConfirmedAt = &now
	}
	req.UpdatedAt = now
	copied := *req
	return &copied, nil
}

func (s *WithdrawalRepositoryStub) ConfirmAdmin(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.Requests[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if req.Status != model.WithdrawalStatusUserConfirmed {
		return nil, domainErrors.ErrInvalidTransition
	}

	s.Items.mu.Lock()
	defer s.Items.mu.Unlock()

	// duplicate lines for one item count against the stock together
	requested := make(map[int64]int64, len(req.Lines))
	order := make([]int64, 0, len(req.Lines))
	for _, line := range req.Lines {
		if _, seen := requested[line.ItemID]; !seen {
			order = append(order, line.ItemID)
		}
		requested[line.ItemID] += line.Quantity
	}

	var shortfalls []model.Shortfall
	for _, itemID := range order {
		item, ok := s.Items.Items[itemID]
		if !ok {
			return nil, domainErrors.ErrNotFound
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
	if len(shortfalls) > 0 {
		return nil, &domainErrors.InsufficientStockError{Shortfalls: shortfalls}
	}

	for _, itemID := range order {
		item := s.Items.Items[itemID]
		item.Quantity -= requested[itemID]
		item.RecalculateTotal()
	}

	now := time.Now()
	req.Status = model.WithdrawalStatusAdminConfirmed
	req.AdminConfirmedBy = &adminID
	if req.AdminConfirmedAt == nil {
		req.AdminConfirmedAt = &now
	}
	req.AdminNote = note
	req.UpdatedAt = now
	copied := *req
	return &copied, nil
}

func (s *WithdrawalRepositoryStub) Cancel(ctx context.Context, id int64, reason string) (*model.WithdrawalRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.Requests[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if req.Status != model.WithdrawalStatusPending && req.Status != model.WithdrawalStatusUserConfirmed {
		return nil, domainErrors.ErrInvalidTransition
	}
	req.Status = model.WithdrawalStatusCancelled
	req.CancelReason = reason
	req.UpdatedAt = time.Now()
	copied := *req
	return &copied, nil
}

// PurchaseRepositoryStub keeps purchase requests in-memory.
type PurchaseRepositoryStub struct {
	mu       sync.Mutex
	Requests map[int64]*model.PurchaseRequest
	Next     int64
	Err      error
}

// NewPurchaseRepositoryStub constructs the stub with initialized state.
func NewPurchaseRepositoryStub() *PurchaseRepositoryStub {
	return &PurchaseRepositoryStub{Requests: make(map[int64]*model.PurchaseRequest), Next: 1}
}

func (s *PurchaseRepositoryStub) Create(ctx context.Context, req *model.PurchaseRequest) (*model.PurchaseRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *req
	stored.ID = s.Next
	stored.Status = model.PurchaseStatusPending
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.Next++
	s.Requests[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (s *PurchaseRepositoryStub) GetByID(ctx context.Context, id int64) (*model.PurchaseRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req, ok := s.Requests[id]; ok {
		copied := *req
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PurchaseRepositoryStub) List(ctx context.Context, filter repository.PurchaseFilter, page, pageSize int) (*model.Page[model.PurchaseRequest], error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]model.PurchaseRequest, 0, len(s.Requests))
	for id := int64(1); id < s.Next; id++ {
		req, ok := s.Requests[id]
		if !ok {
			continue
		}
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && req.Priority != *filter.Priority {
			continue
		}
		matched = append(matched, *req)
	}
	return paginate(matched, page, pageSize), nil
}

func (s *PurchaseRepositoryStub) Review(ctx context.Context, id, adminID int64, status model.PurchaseStatus, adminNote, rejectionReason string) (*model.PurchaseRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.Requests[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if req.Status != model.PurchaseStatusPending {
		return nil, domainErrors.ErrInvalidTransition
	}
	now := time.Now()
	req.Status = status
	req.ReviewedBy = &adminID
	if req.ReviewedAt == nil {
		req.ReviewedAt = &now
	}
	req.AdminNote = adminNote
	req.RejectionReason = rejectionReason
	req.UpdatedAt = now
	copied := *req
	return &copied, nil
}

func (s *PurchaseRepositoryStub) MarkPurchased(ctx context.Context, id int64, supplier string, totalCost *float64) (*model.PurchaseRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.Requests[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if req.Status != model.PurchaseStatusApproved {
		return nil, domainErrors.ErrInvalidTransition
	}
	now := time.Now()
	req.Status = model.PurchaseStatusPurchased
	req.Supplier = supplier
	req.TotalCost = totalCost
	if req.PurchasedAt == nil {
		req.PurchasedAt = &now
	}
	req.UpdatedAt = now
	copied := *req
	return &copied, nil
}

func paginate[T any](items []T, page, pageSize int) *model.Page[T] {
	total := int64(len(items))
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return model.NewPage(items[start:end], page, pageSize, total)
}
