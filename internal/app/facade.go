package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/usecase"
)

// GatewayProvider reports external payment transaction status.
type GatewayProvider interface {
	Fetch(ctx context.Context, ref string) (*model.GatewayTransaction, error)
}

// MarketFacade aggregates marketplace use cases behind one surface used
// by HTTP handlers and the reconciliation worker.
type MarketFacade struct {
	auth     *usecase.AuthUseCase
	catalog  *usecase.CatalogUseCase
	cart     *usecase.CartUseCase
	checkout *usecase.CheckoutUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
	gateway  GatewayProvider
}

func NewMarketFacade(
	auth *usecase.AuthUseCase,
	catalog *usecase.CatalogUseCase,
	cart *usecase.CartUseCase,
	checkout *usecase.CheckoutUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
	gateway GatewayProvider,
) *MarketFacade {
	return &MarketFacade{
		auth:     auth,
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		orders:   orders,
		payments: payments,
		gateway:  gateway,
	}
}

func (f *MarketFacade) Register(ctx context.Context, name, email, password, role string) (string, error) {
	_, token, err := f.auth.Register(ctx, name, email, password, model.Role(role))
	return token, err
}

func (f *MarketFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *MarketFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketFacade) CreateItem(ctx context.Context, sellerID int64, input usecase.ItemInput) (*model.Item, error) {
	return f.catalog.Create(ctx, sellerID, input)
}

func (f *MarketFacade) Items(ctx context.Context) ([]model.Item, error) {
	return f.catalog.ListAvailable(ctx)
}

func (f *MarketFacade) SellerItems(ctx context.Context, sellerID int64) ([]model.Item, error) {
	return f.catalog.ListBySeller(ctx, sellerID)
}

func (f *MarketFacade) Item(ctx context.Context, id int64) (*model.Item, error) {
	return f.catalog.Get(ctx, id)
}

func (f *MarketFacade) UpdateItem(ctx context.Context, sellerID, itemID int64, input usecase.ItemInput) (*model.Item, error) {
	return f.catalog.Update(ctx, sellerID, itemID, input)
}

func (f *MarketFacade) RemoveItem(ctx context.Context, sellerID, itemID int64) error {
	return f.catalog.Deactivate(ctx, sellerID, itemID)
}

func (f *MarketFacade) CartLines(ctx context.Context, buyerID int64) ([]model.CartLine, error) {
	return f.cart.List(ctx, buyerID)
}

func (f *MarketFacade) AddToCart(ctx context.Context, buyerID, itemID int64, quantity int) (*model.CartLine, error) {
	return f.cart.Add(ctx, buyerID, itemID, quantity)
}

func (f *MarketFacade) UpdateCartLine(ctx context.Context, buyerID, lineID int64, quantity int) (*model.CartLine, error) {
	return f.cart.UpdateQuantity(ctx, buyerID, lineID, quantity)
}

func (f *MarketFacade) RemoveCartLine(ctx context.Context, buyerID, lineID int64) error {
	return f.cart.Remove(ctx, buyerID, lineID)
}

func (f *MarketFacade) Checkout(ctx context.Context, buyerID int64, key uuid.UUID) (*model.Order, error) {
	return f.checkout.Checkout(ctx, buyerID, key)
}

func (f *MarketFacade) Orders(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return f.orders.ListByBuyer(ctx, buyerID)
}

func (f *MarketFacade) Order(ctx context.Context, orderID, buyerID int64) (*model.Order, []model.OrderLine, error) {
	order, err := f.orders.GetForBuyer(ctx, orderID, buyerID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := f.orders.Lines(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, lines, nil
}

func (f *MarketFacade) CancelOrder(ctx context.Context, orderID, buyerID int64) error {
	return f.orders.Cancel(ctx, orderID, buyerID)
}

func (f *MarketFacade) InitiatePayment(ctx context.Context, buyerID, orderID int64, amount decimal.Decimal, provider string) (*model.Payment, error) {
	return f.payments.Initiate(ctx, buyerID, orderID, amount, provider)
}

func (f *MarketFacade) CompletePayment(ctx context.Context, paymentID int64) (*model.Payment, error) {
	return f.payments.Complete(ctx, paymentID)
}

func (f *MarketFacade) FailPayment(ctx context.Context, paymentID int64) (*model.Payment, error) {
	return f.payments.Fail(ctx, paymentID)
}

func (f *MarketFacade) OrderPayments(ctx context.Context, buyerID, orderID int64) ([]model.Payment, error) {
	return f.payments.ListForOrder(ctx, buyerID, orderID)
}

func (f *MarketFacade) PaymentsForReconciliation(ctx context.Context, limit int) ([]model.Payment, error) {
	return f.payments.SelectBatchForReconciliation(ctx, limit)
}

func (f *MarketFacade) CheckGatewayStatus(ctx context.Context, ref string) (*model.GatewayTransaction, error) {
	return f.gateway.Fetch(ctx, ref)
}
