package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest describes listing creation/update payload.
type ItemRequest struct {
	Name      string          `json:"name"`
	Species   string          `json:"species"`
	Breed     string          `json:"breed"`
	AgeMonths *int            `json:"age_months"`
	Price     decimal.Decimal `json:"price"`
}

// ItemResponse describes one catalog listing.
type ItemResponse struct {
	ID        int64           `json:"id"`
	SellerID  int64           `json:"seller_id"`
	Name      string          `json:"name"`
	Species   string          `json:"species"`
	Breed     string          `json:"breed,omitempty"`
	AgeMonths *int            `json:"age_months,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
	CreatedAt time.Time       `json:"created_at"`
}
