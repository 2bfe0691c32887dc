package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineResponse describes one immutable order line snapshot.
type OrderLineResponse struct {
	ItemID   int64           `json:"item_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderResponse describes an order; Lines is filled on detail reads.
type OrderResponse struct {
	ID        int64               `json:"id"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Paid      bool                `json:"paid"`
	CreatedAt time.Time           `json:"created_at"`
	Lines     []OrderLineResponse `json:"lines,omitempty"`
}
