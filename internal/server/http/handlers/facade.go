package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, email, password, role string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// CatalogFacade encapsulates listing operations exposed via HTTP.
type CatalogFacade interface {
	CreateItem(ctx context.Context, sellerID int64, input usecase.ItemInput) (*model.Item, error)
	Items(ctx context.Context) ([]model.Item, error)
	SellerItems(ctx context.Context, sellerID int64) ([]model.Item, error)
	Item(ctx context.Context, id int64) (*model.Item, error)
	UpdateItem(ctx context.Context, sellerID, itemID int64, input usecase.ItemInput) (*model.Item, error)
	RemoveItem(ctx context.Context, sellerID, itemID int64) error
}

// CartFacade provides cart related operations.
type CartFacade interface {
	CartLines(ctx context.Context, buyerID int64) ([]model.CartLine, error)
	AddToCart(ctx context.Context, buyerID, itemID int64, quantity int) (*model.CartLine, error)
	UpdateCartLine(ctx context.Context, buyerID, lineID int64, quantity int) (*model.CartLine, error)
	RemoveCartLine(ctx context.Context, buyerID, lineID int64) error
}

// OrderFacade encapsulates checkout and order reads.
type OrderFacade interface {
	Checkout(ctx context.Context, buyerID int64, key uuid.UUID) (*model.Order, error)
	Orders(ctx context.Context, buyerID int64) ([]model.Order, error)
	Order(ctx context.Context, orderID, buyerID int64) (*model.Order, []model.OrderLine, error)
	CancelOrder(ctx context.Context, orderID, buyerID int64) error
}

// PaymentFacade provides payment lifecycle operations.
type PaymentFacade interface {
	InitiatePayment(ctx context.Context, buyerID, orderID int64, amount decimal.Decimal, provider string) (*model.Payment, error)
	CompletePayment(ctx context.Context, paymentID int64) (*model.Payment, error)
	FailPayment(ctx context.Context, paymentID int64) (*model.Payment, error)
	OrderPayments(ctx context.Context, buyerID, orderID int64) ([]model.Payment, error)
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	AuthFacade
	CatalogFacade
	CartFacade
	OrderFacade
	PaymentFacade
}
