package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus describes payment attempt lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
// A failed attempt is not resurrected; the buyer initiates a new one.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// Payment is one attempt to pay for an order. Attempts are append-only;
// failed ones are kept for audit.
type Payment struct {
	ID          int64
	OrderID     int64
	BuyerID     int64
	Amount      decimal.Decimal
	Provider    string
	Status      PaymentStatus
	ExternalRef string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
