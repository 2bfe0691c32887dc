package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/domain/repository"
)

const defaultProvider = "mpesa"

// PaymentUseCase governs the payment attempt lifecycle against orders.
type PaymentUseCase struct {
	payments repository.PaymentRepository
	orders   repository.OrderRepository
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(payments repository.PaymentRepository, orders repository.OrderRepository) *PaymentUseCase {
	return &PaymentUseCase{payments: payments, orders: orders}
}

// Initiate opens a pending payment attempt for an order. The amount
// must equal the order total exactly; an order that is already paid is
// rejected no matter how often the call is retried, and an order in any
// other terminal state (cancelled, rejected) can no longer be paid.
func (u *PaymentUseCase) Initiate(ctx context.Context, buyerID, orderID int64, amount decimal.Decimal, provider string) (*model.Payment, error) {
	order, err := u.orders.GetForBuyer(ctx, orderID, buyerID)
	if err != nil {
		return nil, err
	}
	if order.Paid || order.Status == model.OrderStatusPaid {
		return nil, domainErrors.ErrOrderAlreadyPaid
	}
	if !order.Status.CanTransitionTo(model.OrderStatusPaid) {
		return nil, domainErrors.ErrInvalidTransition
	}
	if !amount.Equal(order.Total) {
		return nil, domainErrors.ErrAmountMismatch
	}
	if provider == "" {
		provider = defaultProvider
	}

	payment := &model.Payment{
		OrderID:     order.ID,
		BuyerID:     buyerID,
		Amount:      amount,
		Provider:    provider,
		Status:      model.PaymentStatusPending,
		ExternalRef: uuid.NewString(),
	}
	return u.payments.Create(ctx, payment)
}

// Complete finalizes a pending payment; the order flips to paid in the
// same storage transaction.
func (u *PaymentUseCase) Complete(ctx context.Context, paymentID int64) (*model.Payment, error) {
	return u.payments.MarkCompleted(ctx, paymentID)
}

// Fail marks a pending payment failed. The order stays pending so the
// buyer can open a new attempt.
func (u *PaymentUseCase) Fail(ctx context.Context, paymentID int64) (*model.Payment, error) {
	return u.payments.MarkFailed(ctx, paymentID)
}

// ListForOrder returns the payment history of a buyer's order.
func (u *PaymentUseCase) ListForOrder(ctx context.Context, buyerID, orderID int64) ([]model.Payment, error) {
	if _, err := u.orders.GetForBuyer(ctx, orderID, buyerID); err != nil {
		return nil, err
	}
	return u.payments.ListByOrder(ctx, orderID)
}

// SelectBatchForReconciliation claims pending payments for the gateway
// polling worker.
func (u *PaymentUseCase) SelectBatchForReconciliation(ctx context.Context, limit int) ([]model.Payment, error) {
	return u.payments.SelectBatchForReconciliation(ctx, limit)
}
