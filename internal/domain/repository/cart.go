package repository

import (
	"context"

	"github.com/mkulima/shambamart/internal/domain/model"
)

// CartRepository describes persistence operations for cart lines.
type CartRepository interface {
	// LinesFor returns the buyer's cart lines ordered by item ID so
	// reservation order is deterministic across retries.
	LinesFor(ctx context.Context, buyerID int64) ([]model.CartLine, error)
	Upsert(ctx context.Context, line *model.CartLine) (*model.CartLine, error)
	UpdateQuantity(ctx context.Context, buyerID, lineID int64, quantity int) (*model.CartLine, error)
	Delete(ctx context.Context, buyerID, lineID int64) error

	// DeleteLines removes exactly the given line IDs. Already-deleted
	// lines are skipped, so retried checkouts are safe.
	DeleteLines(ctx context.Context, lineIDs []int64) error
}
