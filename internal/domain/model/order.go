package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the permitted status changes. Paid, rejected
// and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusRejected, OrderStatusCancelled},
}

// CanTransitionTo reports whether the status change is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is the durable record of a completed checkout. Total always
// equals the sum of its line prices multiplied by quantities at
// creation time. CheckoutKey deduplicates retried checkouts.
type Order struct {
	ID          int64
	BuyerID     int64
	Status      OrderStatus
	Total       decimal.Decimal
	Paid        bool
	CheckoutKey uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderLine is an immutable snapshot of one purchased item with the
// unit price captured at reservation time.
type OrderLine struct {
	ID        int64
	OrderID   int64
	ItemID    int64
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
}
