package repository

import (
	"context"

	"github.com/mkulima/shambamart/internal/domain/model"
)

// PaymentRepository describes the append-only payment ledger.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.Payment, error)

	// MarkCompleted transitions the payment to completed and, in the
	// same transaction, sets the order paid. Returns
	// ErrInvalidTransition for terminal payments and
	// ErrOrderAlreadyPaid when another attempt won.
	MarkCompleted(ctx context.Context, paymentID int64) (*model.Payment, error)
	MarkFailed(ctx context.Context, paymentID int64) (*model.Payment, error)

	// SelectBatchForReconciliation claims pending payments for gateway
	// status polling.
	SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Payment, error)
}
