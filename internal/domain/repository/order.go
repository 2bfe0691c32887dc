package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkulima/shambamart/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create persists the order and all its lines in one transaction.
	// A duplicate checkout key returns ErrAlreadyExists with no write.
	Create(ctx context.Context, order *model.Order, lines []model.OrderLine) (*model.Order, error)
	GetByCheckoutKey(ctx context.Context, key uuid.UUID) (*model.Order, error)
	// GetForBuyer returns ErrNotFound when the order belongs to another
	// buyer, deliberately indistinguishable from a missing order.
	GetForBuyer(ctx context.Context, orderID, buyerID int64) (*model.Order, error)
	Lines(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	// SetStatus rejects transitions outside the order state machine.
	SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
}
