package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ItemUseCase manages the supply item ledger.
type ItemUseCase struct {
	items repository.ItemRepository
}

// NewItemUseCase constructs ItemUseCase.
func NewItemUseCase(items repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{items: items}
}

// ItemInput carries the mutable fields of an item.
type ItemInput struct {
	Category    model.ItemCategory
	Level       model.ItemLevel
	Description string
	Quantity    int64
	UnitValue   float64
	Branch      model.Branch
}

func (in *ItemInput) validate() error {
	in.Description = strings.TrimSpace(in.Description)
	if in.Level == "" {
		in.Level = model.ItemLevelNone
	}
	if !model.ValidCategory(in.Category) {
		return domainErrors.Validation("unknown item category %q", in.Category)
	}
	if !model.ValidLevel(in.Level) {
		return domainErrors.Validation("unknown item level %q", in.Level)
	}
	if in.Description == "" {
		return domainErrors.Validation("description must not be empty")
	}
	if in.Quantity < 0 {
		return domainErrors.Validation("quantity must not be negative")
	}
	if in.UnitValue < 0 {
		return domainErrors.Validation("unit value must not be negative")
	}
	if !model.ValidBranch(in.Branch) {
		return domainErrors.Validation("unknown branch %q", in.Branch)
	}
	return nil
}

// Create registers a new item; only admins may change the ledger.
func (u *ItemUseCase) Create(ctx context.Context, principal model.Principal, in ItemInput) (*model.Item, error) {
	if !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := &model.Item{
		Category:    in.Category,
		Level:       in.Level,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitValue:   in.UnitValue,
		Branch:      in.Branch,
	}
	item.RecalculateTotal()
	return u.items.Create(ctx, item)
}

// Get returns a single item by its identifier.
func (u *ItemUseCase) Get(ctx context.Context, id int64) (*model.Item, error) {
	return u.items.GetByID(ctx, id)
}

// List returns a page of items matching the filter.
func (u *ItemUseCase) List(ctx context.Context, filter repository.ItemFilter, page, pageSize int) (*model.Page[model.Item], error) {
	page, pageSize = normalizePage(page, pageSize)
	if filter.Category != nil && !model.ValidCategory(*filter.Category) {
		return nil, domainErrors.Validation("unknown item category %q", *filter.Category)
	}
	if filter.Level != nil && !model.ValidLevel(*filter.Level) {
		return nil, domainErrors.Validation("unknown item level %q", *filter.Level)
	}
	if filter.Branch != nil && !model.ValidBranch(*filter.Branch) {
		return nil, domainErrors.Validation("unknown branch %q", *filter.Branch)
	}
	return u.items.List(ctx, filter, page, pageSize)
}

// Update replaces the mutable fields of an item.
func (u *ItemUseCase) Update(ctx context.Context, principal model.Principal, id int64, in ItemInput) (*model.Item, error) {
	if !principal.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := &model.Item{
		ID:          id,
		Category:    in.Category,
		Level:       in.Level,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitValue:   in.UnitValue,
		Branch:      in.Branch,
	}
	item.RecalculateTotal()
	return u.items.Update(ctx, item)
}

// Delete removes an item from the ledger.
func (u *ItemUseCase) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if !principal.IsAdmin() {
		return domainErrors.ErrForbidden
	}
	return u.items.Delete(ctx, id)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
