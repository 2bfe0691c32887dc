package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentInitiateRequest describes payment creation payload.
type PaymentInitiateRequest struct {
	OrderID  int64           `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Provider string          `json:"provider"`
}

// PaymentResponse describes one payment attempt.
type PaymentResponse struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Provider  string          `json:"provider"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
