package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartAddRequest describes add-to-cart payload.
type CartAddRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// CartUpdateRequest describes quantity change payload.
type CartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse describes one cart line.
type CartLineResponse struct {
	ID        int64           `json:"id"`
	ItemID    int64           `json:"item_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}
