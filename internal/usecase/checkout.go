package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/domain/repository"
)

// CheckoutUseCase converts a buyer's cart into an order. It is the only
// place that composes the cart, the inventory ledger and the order
// store, and it owns the compensation logic when any step fails.
type CheckoutUseCase struct {
	carts  repository.CartRepository
	items  repository.ItemRepository
	orders repository.OrderRepository
	logger *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(carts repository.CartRepository, items repository.ItemRepository, orders repository.OrderRepository, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{carts: carts, items: items, orders: orders, logger: logger}
}

type reservedLine struct {
	line  model.CartLine
	price decimal.Decimal
}

// Checkout snapshots the cart, reserves every referenced item, creates
// the order with its line snapshots and clears exactly the snapshotted
// lines. Reservations are taken in ascending item order and released in
// reverse when any step fails, so either the full order exists or no
// item was left unavailable. A non-nil key makes the operation safe to
// retry: a repeated key returns the order created by the first attempt.
func (u *CheckoutUseCase) Checkout(ctx context.Context, buyerID int64, key uuid.UUID) (*model.Order, error) {
	if key == uuid.Nil {
		key = uuid.New()
	} else {
		existing, err := u.orders.GetByCheckoutKey(ctx, key)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
	}

	lines, err := u.carts.LinesFor(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })

	reserved := make([]reservedLine, 0, len(lines))
	for _, line := range lines {
		price, err := u.items.TryReserve(ctx, line.ItemID)
		if err != nil {
			u.releaseAll(ctx, reserved)
			var unavailable domainErrors.ItemUnavailableError
			if errors.As(err, &unavailable) {
				return nil, unavailable
			}
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, domainErrors.ItemUnavailableError{ItemID: line.ItemID}
			}
			return nil, err
		}
		reserved = append(reserved, reservedLine{line: line, price: price})
	}

	total := decimal.Zero
	orderLines := make([]model.OrderLine, 0, len(reserved))
	for _, r := range reserved {
		total = total.Add(r.price.Mul(decimal.NewFromInt(int64(r.line.Quantity))))
		orderLines = append(orderLines, model.OrderLine{
			ItemID:   r.line.ItemID,
			Quantity: r.line.Quantity,
			Price:    r.price,
		})
	}

	order := &model.Order{
		BuyerID:     buyerID,
		Status:      model.OrderStatusPending,
		Total:       total,
		CheckoutKey: key,
	}
	created, err := u.orders.Create(ctx, order, orderLines)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			// A concurrent retry with the same key won the insert; its
			// reservations stand, ours are duplicates.
			u.releaseAll(ctx, reserved)
			return u.orders.GetByCheckoutKey(ctx, key)
		}
		u.releaseAll(ctx, reserved)
		return nil, err
	}

	lineIDs := make([]int64, 0, len(lines))
	for _, line := range lines {
		lineIDs = append(lineIDs, line.ID)
	}
	if err := u.carts.DeleteLines(ctx, lineIDs); err != nil {
		// The order exists and the deletion is idempotent; leftover
		// lines reference now-unavailable items and cannot be checked
		// out again.
		u.logger.Error("clear cart snapshot failed",
			slog.Int64("order_id", created.ID),
			slog.String("error", err.Error()),
		)
	}

	return created, nil
}

// releaseAll undoes reservations in reverse order. It must run even
// when the request context is already cancelled, otherwise items stay
// stranded as unavailable.
func (u *CheckoutUseCase) releaseAll(ctx context.Context, reserved []reservedLine) {
	ctx = context.WithoutCancel(ctx)
	for i := len(reserved) - 1; i >= 0; i-- {
		itemID := reserved[i].line.ItemID
		if err := u.items.Release(ctx, itemID); err != nil {
			u.logger.Error("release reservation failed",
				slog.Int64("item_id", itemID),
				slog.String("error", err.Error()),
			)
		}
	}
}
