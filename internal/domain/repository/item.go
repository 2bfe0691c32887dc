package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mkulima/shambamart/internal/domain/model"
)

// ItemRepository describes catalog persistence plus the inventory
// ledger operations guarding item availability.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) (*model.Item, error)
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	ListAvailable(ctx context.Context) ([]model.Item, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Deactivate(ctx context.Context, id int64) error

	// TryReserve atomically flips an available item to unavailable and
	// returns its price as read in the same statement. Exactly one of
	// any set of concurrent callers succeeds; the rest receive
	// ItemUnavailableError. ErrNotFound is returned for unknown or
	// deactivated items.
	TryReserve(ctx context.Context, id int64) (decimal.Decimal, error)

	// Release reverts a reservation, used for checkout compensation and
	// order cancellation.
	Release(ctx context.Context, id int64) error
}
