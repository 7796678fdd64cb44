package repository

import (
	"context"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
)

// ItemFilter narrows item listings. Nil fields are ignored.
type ItemFilter struct {
	Category *model.ItemCategory
	Level    *model.ItemLevel
	Branch   *model.Branch
}

// ItemRepository owns stock item persistence. DecrementStock is the sole
// authoritative way to reduce stock: it applies only when the current
// quantity covers the amount, using the store's conditional update rather
// than a read-then-write sequence.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) (*model.Item, error)
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Item, error)
	List(ctx context.Context, filter ItemFilter, page, pageSize int) (*model.Page[model.Item], error)
	Update(ctx context.Context, item *model.Item) (*model.Item, error)
	Delete(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, itemID, amount int64) error
}
