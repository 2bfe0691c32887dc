package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a single non-fungible inventory unit listed by a seller,
// typically one physical animal. Availability is flipped exactly once
// when the item is reserved during checkout.
type Item struct {
	ID        int64
	SellerID  int64
	Name      string
	Species   string
	Breed     string
	AgeMonths *int
	Price     decimal.Decimal
	Available bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
