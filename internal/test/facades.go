package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, name, email, password, role string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, name, email, password, role)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for the authenticated buyer.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// CatalogFacadeStub provides controllable behaviour for item endpoints.
type CatalogFacadeStub struct {
	CreateFn      func(context.Context, int64, usecase.ItemInput) (*model.Item, error)
	ItemsFn       func(context.Context) ([]model.Item, error)
	SellerItemsFn func(context.Context, int64) ([]model.Item, error)
	ItemFn        func(context.Context, int64) (*model.Item, error)
	UpdateFn      func(context.Context, int64, int64, usecase.ItemInput) (*model.Item, error)
	RemoveFn      func(context.Context, int64, int64) error
}

// CreateItem delegates to override or returns a default listing.
func (s CatalogFacadeStub) CreateItem(ctx context.Context, sellerID int64, input usecase.ItemInput) (*model.Item, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, sellerID, input)
	}
	return &model.Item{ID: 1, SellerID: sellerID, Name: input.Name, Price: input.Price, Available: true, Active: true}, nil
}

// Items returns configured catalog contents.
func (s CatalogFacadeStub) Items(ctx context.Context) ([]model.Item, error) {
	if s.ItemsFn != nil {
		return s.ItemsFn(ctx)
	}
	return []model.Item{{ID: 1, Name: "nguruwe", Available: true, Active: true}}, nil
}

// SellerItems returns the seller's configured listings.
func (s CatalogFacadeStub) SellerItems(ctx context.Context, sellerID int64) ([]model.Item, error) {
	if s.SellerItemsFn != nil {
		return s.SellerItemsFn(ctx, sellerID)
	}
	return nil, nil
}

// Item returns configured item data.
func (s CatalogFacadeStub) Item(ctx context.Context, id int64) (*model.Item, error) {
	if s.ItemFn != nil {
		return s.ItemFn(ctx, id)
	}
	return &model.Item{ID: id, Name: "mbuzi", Available: true, Active: true}, nil
}

// UpdateItem delegates to override or echoes the input back.
func (s CatalogFacadeStub) UpdateItem(ctx context.Context, sellerID, itemID int64, input usecase.ItemInput) (*model.Item, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, sellerID, itemID, input)
	}
	return &model.Item{ID: itemID, SellerID: sellerID, Name: input.Name, Price: input.Price}, nil
}

// RemoveItem executes the configured removal handler.
func (s CatalogFacadeStub) RemoveItem(ctx context.Context, sellerID, itemID int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, sellerID, itemID)
	}
	return nil
}

// CartFacadeStub simulates cart operations.
type CartFacadeStub struct {
	LinesFn  func(context.Context, int64) ([]model.CartLine, error)
	AddFn    func(context.Context, int64, int64, int) (*model.CartLine, error)
	UpdateFn func(context.Context, int64, int64, int) (*model.CartLine, error)
	RemoveFn func(context.Context, int64, int64) error
}

// CartLines returns the configured lines.
func (s CartFacadeStub) CartLines(ctx context.Context, buyerID int64) ([]model.CartLine, error) {
	if s.LinesFn != nil {
		return s.LinesFn(ctx, buyerID)
	}
	return []model.CartLine{{ID: 1, BuyerID: buyerID, ItemID: 1, Quantity: 1}}, nil
}

// AddToCart delegates to override or returns a default line.
func (s CartFacadeStub) AddToCart(ctx context.Context, buyerID, itemID int64, quantity int) (*model.CartLine, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, buyerID, itemID, quantity)
	}
	return &model.CartLine{ID: 1, BuyerID: buyerID, ItemID: itemID, Quantity: quantity}, nil
}

// UpdateCartLine delegates to override or echoes the new quantity.
func (s CartFacadeStub) UpdateCartLine(ctx context.Context, buyerID, lineID int64, quantity int) (*model.CartLine, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, buyerID, lineID, quantity)
	}
	return &model.CartLine{ID: lineID, BuyerID: buyerID, Quantity: quantity}, nil
}

// RemoveCartLine executes the configured removal handler.
func (s CartFacadeStub) RemoveCartLine(ctx context.Context, buyerID, lineID int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, buyerID, lineID)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CheckoutFn func(context.Context, int64, uuid.UUID) (*model.Order, error)
	OrdersFn   func(context.Context, int64) ([]model.Order, error)
	OrderFn    func(context.Context, int64, int64) (*model.Order, []model.OrderLine, error)
	CancelFn   func(context.Context, int64, int64) error
}

// Checkout delegates to provided function or returns a default order.
func (s OrderFacadeStub) Checkout(ctx context.Context, buyerID int64, key uuid.UUID) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, buyerID, key)
	}
	return &model.Order{ID: 1, BuyerID: buyerID, Status: model.OrderStatusPending, Total: decimal.NewFromInt(100)}, nil
}

// Orders returns predefined orders for the given buyer.
func (s OrderFacadeStub) Orders(ctx context.Context, buyerID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, buyerID)
	}
	return []model.Order{{ID: 1, BuyerID: buyerID, Status: model.OrderStatusPending}}, nil
}

// Order returns a configured order with its lines.
func (s OrderFacadeStub) Order(ctx context.Context, orderID, buyerID int64) (*model.Order, []model.OrderLine, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, buyerID)
	}
	order := &model.Order{ID: orderID, BuyerID: buyerID, Status: model.OrderStatusPending}
	return order, []model.OrderLine{{OrderID: orderID, ItemID: 1, Quantity: 1}}, nil
}

// CancelOrder executes the configured cancellation handler.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID, buyerID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, buyerID)
	}
	return nil
}

// PaymentFacadeStub simulates payment operations.
type PaymentFacadeStub struct {
	InitiateFn func(context.Context, int64, int64, decimal.Decimal, string) (*model.Payment, error)
	CompleteFn func(context.Context, int64) (*model.Payment, error)
	FailFn     func(context.Context, int64) (*model.Payment, error)
	ListFn     func(context.Context, int64, int64) ([]model.Payment, error)
}

// InitiatePayment delegates to override or returns a pending attempt.
func (s PaymentFacadeStub) InitiatePayment(ctx context.Context, buyerID, orderID int64, amount decimal.Decimal, provider string) (*model.Payment, error) {
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, buyerID, orderID, amount, provider)
	}
	return &model.Payment{ID: 1, OrderID: orderID, BuyerID: buyerID, Amount: amount, Provider: provider, Status: model.PaymentStatusPending}, nil
}

// CompletePayment delegates to override or returns a completed attempt.
func (s PaymentFacadeStub) CompletePayment(ctx context.Context, paymentID int64) (*model.Payment, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, paymentID)
	}
	return &model.Payment{ID: paymentID, Status: model.PaymentStatusCompleted}, nil
}

// FailPayment delegates to override or returns a failed attempt.
func (s PaymentFacadeStub) FailPayment(ctx context.Context, paymentID int64) (*model.Payment, error) {
	if s.FailFn != nil {
		return s.FailFn(ctx, paymentID)
	}
	return &model.Payment{ID: paymentID, Status: model.PaymentStatusFailed}, nil
}

// OrderPayments returns the configured attempt history.
func (s PaymentFacadeStub) OrderPayments(ctx context.Context, buyerID, orderID int64) ([]model.Payment, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, buyerID, orderID)
	}
	return []model.Payment{{ID: 1, OrderID: orderID, BuyerID: buyerID, Status: model.PaymentStatusPending}}, nil
}

// MarketFacadeStub aggregates facade dependencies for HTTP layer tests.
type MarketFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	CartFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
}

// GatewayClientStub simulates the payment provider client.
type GatewayClientStub struct {
	Transaction *model.GatewayTransaction
	Err         error
	FetchFn     func(context.Context, string) (*model.GatewayTransaction, error)
}

// Fetch returns the configured transaction or error.
func (s *GatewayClientStub) Fetch(ctx context.Context, ref string) (*model.GatewayTransaction, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, ref)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Transaction != nil {
		return s.Transaction, nil
	}
	return &model.GatewayTransaction{Ref: ref, Status: model.GatewayStatusPending}, nil
}

// WorkerFacadeStub mimics worker interactions with the market facade.
type WorkerFacadeStub struct {
	Batches    [][]model.Payment
	BatchFn    func(context.Context, int) ([]model.Payment, error)
	GatewayFn  func(context.Context, string) (*model.GatewayTransaction, error)
	CompleteFn func(context.Context, int64) (*model.Payment, error)
	FailFn     func(context.Context, int64) (*model.Payment, error)

	Completed []int64
	Failed    []int64

	mu             sync.Mutex
	batchCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PaymentsForReconciliation returns batches from configured queue.
func (s *WorkerFacadeStub) PaymentsForReconciliation(ctx context.Context, limit int) ([]model.Payment, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckGatewayStatus returns configured transaction data.
func (s *WorkerFacadeStub) CheckGatewayStatus(ctx context.Context, ref string) (*model.GatewayTransaction, error) {
	if s.GatewayFn != nil {
		return s.GatewayFn(ctx, ref)
	}
	return &model.GatewayTransaction{Ref: ref, Status: model.GatewayStatusSucceeded}, nil
}

// CompletePayment records completion requests.
func (s *WorkerFacadeStub) CompletePayment(ctx context.Context, paymentID int64) (*model.Payment, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, paymentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed = append(s.Completed, paymentID)
	return &model.Payment{ID: paymentID, Status: model.PaymentStatusCompleted}, nil
}

// FailPayment records failure requests.
func (s *WorkerFacadeStub) FailPayment(ctx context.Context, paymentID int64) (*model.Payment, error) {
	if s.FailFn != nil {
		return s.FailFn(ctx, paymentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed = append(s.Failed, paymentID)
	return &model.Payment{ID: paymentID, Status: model.PaymentStatusFailed}, nil
}
