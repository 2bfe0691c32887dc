package usecase

import (
	"context"
	"log/slog"

	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/domain/repository"
)

// OrderUseCase encapsulates order reads and the transitions allowed
// outside checkout and payment.
type OrderUseCase struct {
	orders repository.OrderRepository
	items  repository.ItemRepository
	logger *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, items repository.ItemRepository, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, items: items, logger: logger}
}

// ListByBuyer returns the buyer's orders, newest first.
func (u *OrderUseCase) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return u.orders.ListByBuyer(ctx, buyerID)
}

// GetForBuyer returns one order scoped to its buyer.
func (u *OrderUseCase) GetForBuyer(ctx context.Context, orderID, buyerID int64) (*model.Order, error) {
	return u.orders.GetForBuyer(ctx, orderID, buyerID)
}

// Lines returns the immutable line snapshots of an order.
func (u *OrderUseCase) Lines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	return u.orders.Lines(ctx, orderID)
}

// Cancel moves a pending order to cancelled and releases its items
// back to the catalog. Release failures are logged and do not undo the
// cancellation; Release is idempotent and can be retried.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID, buyerID int64) error {
	order, err := u.orders.GetForBuyer(ctx, orderID, buyerID)
	if err != nil {
		return err
	}
	if err := u.orders.SetStatus(ctx, order.ID, model.OrderStatusCancelled); err != nil {
		return err
	}

	lines, err := u.orders.Lines(ctx, order.ID)
	if err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	for i := len(lines) - 1; i >= 0; i-- {
		if err := u.items.Release(ctx, lines[i].ItemID); err != nil {
			u.logger.Error("release cancelled item failed",
				slog.Int64("item_id", lines[i].ItemID),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}
