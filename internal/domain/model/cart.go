package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is a buyer's pending intent to purchase one item. Price is
// captured at add time; checkout re-captures it at reservation time.
type CartLine struct {
	ID        int64
	BuyerID   int64
	ItemID    int64
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
