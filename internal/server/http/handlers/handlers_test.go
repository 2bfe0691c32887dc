package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/server/http/dto"
	"github.com/mkulima/shambamart/internal/server/http/middleware"
	"github.com/mkulima/shambamart/internal/usecase"
	testhelpers "github.com/mkulima/shambamart/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asBuyer(id int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.BuyerIDContextKey, id)
	}
}

func withPathID(buyerID int64, id string) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.BuyerIDContextKey, buyerID)
		c.Params = append(c.Params, gin.Param{Key: "id", Value: id})
	}
}

func TestCurrentBuyerID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentBuyerID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.BuyerIDContextKey, int64(42))
	if got := CurrentBuyerID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	email := testhelpers.RandomASCIIString(7, 14) + "@example.com"
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.RegisterRequest{Name: "Wanjiku", Email: email, Password: password})
	resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(testhelpers.AuthFacadeStub{}).Register, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer token" {
		t.Fatalf("expected auth header, got %q", resp.Header().Get("Authorization"))
	}
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	facade := testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string, string) (string, error) {
		return "", domainErrors.ErrAlreadyExists
	}}
	body, _ := json.Marshal(dto.RegisterRequest{Email: "w@example.com", Password: "secret"})
	resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(facade).Register, nil, body, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	facade := testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
		return "", domainErrors.ErrInvalidCredentials
	}}
	body, _ := json.Marshal(dto.LoginRequest{Email: "w@example.com", Password: "wrong"})
	resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(facade).Login, nil, body, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestItemHandlerCreate(t *testing.T) {
	body, _ := json.Marshal(dto.ItemRequest{Name: "mbuzi", Species: "goat", Price: decimal.NewFromInt(120)})
	resp := performRequest(t, http.MethodPost, "/items", NewItemHandler(testhelpers.CatalogFacadeStub{}).Create, asBuyer(7), body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var item dto.ItemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if item.SellerID != 7 || item.Name != "mbuzi" {
		t.Fatalf("unexpected item %v", item)
	}
}

func TestItemHandlerUpdateForbiddenForForeignItem(t *testing.T) {
	facade := testhelpers.CatalogFacadeStub{UpdateFn: func(context.Context, int64, int64, usecase.ItemInput) (*model.Item, error) {
		return nil, domainErrors.ErrNotOwner
	}}
	body, _ := json.Marshal(dto.ItemRequest{Name: "wizi"})
	resp := performRequest(t, http.MethodPatch, "/items/5", NewItemHandler(facade).Update, withPathID(8, "5"), body, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestItemHandlerGetUnknown(t *testing.T) {
	facade := testhelpers.CatalogFacadeStub{ItemFn: func(context.Context, int64) (*model.Item, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp := performRequest(t, http.MethodGet, "/items/5", NewItemHandler(facade).Get, withPathID(0, "5"), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestCartHandlerAddUnavailableItem(t *testing.T) {
	facade := testhelpers.CartFacadeStub{AddFn: func(context.Context, int64, int64, int) (*model.CartLine, error) {
		return nil, domainErrors.ItemUnavailableError{ItemID: 5}
	}}
	body, _ := json.Marshal(dto.CartAddRequest{ItemID: 5, Quantity: 1})
	resp := performRequest(t, http.MethodPost, "/cart", NewCartHandler(facade).Add, asBuyer(1), body, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["item_id"] != float64(5) {
		t.Fatalf("expected item_id in body, got %v", payload)
	}
}

func TestCartHandlerAddInvalidQuantity(t *testing.T) {
	facade := testhelpers.CartFacadeStub{AddFn: func(context.Context, int64, int64, int) (*model.CartLine, error) {
		return nil, domainErrors.ErrInvalidQuantity
	}}
	body, _ := json.Marshal(dto.CartAddRequest{ItemID: 5, Quantity: -1})
	resp := performRequest(t, http.MethodPost, "/cart", NewCartHandler(facade).Add, asBuyer(1), body, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestOrderHandlerCheckout(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{CheckoutFn: func(ctx context.Context, buyerID int64, key uuid.UUID) (*model.Order, error) {
		if key != uuid.Nil {
			t.Fatalf("expected nil key without header, got %s", key)
		}
		return &model.Order{ID: 3, BuyerID: buyerID, Status: model.OrderStatusPending, Total: decimal.NewFromInt(165)}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(facade).Checkout, asBuyer(1), nil, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if order.ID != 3 || order.Status != "pending" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestOrderHandlerCheckoutForwardsIdempotencyKey(t *testing.T) {
	key := uuid.New()
	facade := testhelpers.OrderFacadeStub{CheckoutFn: func(ctx context.Context, buyerID int64, got uuid.UUID) (*model.Order, error) {
		if got != key {
			t.Fatalf("expected key %s, got %s", key, got)
		}
		return &model.Order{ID: 3, BuyerID: buyerID, Status: model.OrderStatusPending}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(facade).Checkout, asBuyer(1), nil, map[string]string{IdempotencyKeyHeader: key.String()})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
}

func TestOrderHandlerCheckoutRejectsMalformedKey(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(testhelpers.OrderFacadeStub{}).Checkout, asBuyer(1), nil, map[string]string{IdempotencyKeyHeader: "not-a-uuid"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestOrderHandlerCheckoutEmptyCart(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{CheckoutFn: func(context.Context, int64, uuid.UUID) (*model.Order, error) {
		return nil, domainErrors.ErrEmptyCart
	}}
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(facade).Checkout, asBuyer(1), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestOrderHandlerCheckoutUnavailableItem(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{CheckoutFn: func(context.Context, int64, uuid.UUID) (*model.Order, error) {
		return nil, domainErrors.ItemUnavailableError{ItemID: 9}
	}}
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(facade).Checkout, asBuyer(1), nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestOrderHandlerListEmpty(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, int64) ([]model.Order, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", NewOrderHandler(facade).List, asBuyer(1), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestOrderHandlerGetIncludesLines(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/orders/5", NewOrderHandler(testhelpers.OrderFacadeStub{}).Get, withPathID(1, "5"), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(order.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(order.Lines))
	}
}

func TestOrderHandlerCancelConflict(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{CancelFn: func(context.Context, int64, int64) error {
		return domainErrors.ErrInvalidTransition
	}}
	resp := performRequest(t, http.MethodPost, "/orders/5/cancel", NewOrderHandler(facade).Cancel, withPathID(1, "5"), nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestPaymentHandlerInitiate(t *testing.T) {
	body, _ := json.Marshal(dto.PaymentInitiateRequest{OrderID: 3, Amount: decimal.NewFromInt(165), Provider: "mpesa"})
	resp := performRequest(t, http.MethodPost, "/payments", NewPaymentHandler(testhelpers.PaymentFacadeStub{}).Initiate, asBuyer(1), body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
}

func TestPaymentHandlerInitiateAmountMismatch(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{InitiateFn: func(context.Context, int64, int64, decimal.Decimal, string) (*model.Payment, error) {
		return nil, domainErrors.ErrAmountMismatch
	}}
	body, _ := json.Marshal(dto.PaymentInitiateRequest{OrderID: 3, Amount: decimal.NewFromInt(1)})
	resp := performRequest(t, http.MethodPost, "/payments", NewPaymentHandler(facade).Initiate, asBuyer(1), body, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestPaymentHandlerInitiateAlreadyPaid(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{InitiateFn: func(context.Context, int64, int64, decimal.Decimal, string) (*model.Payment, error) {
		return nil, domainErrors.ErrOrderAlreadyPaid
	}}
	body, _ := json.Marshal(dto.PaymentInitiateRequest{OrderID: 3, Amount: decimal.NewFromInt(165)})
	resp := performRequest(t, http.MethodPost, "/payments", NewPaymentHandler(facade).Initiate, asBuyer(1), body, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestPaymentHandlerCompleteConflictOnRepeat(t *testing.T) {
	facade := testhelpers.PaymentFacadeStub{CompleteFn: func(context.Context, int64) (*model.Payment, error) {
		return nil, domainErrors.ErrInvalidTransition
	}}
	resp := performRequest(t, http.MethodPost, "/payments/5/complete", NewPaymentHandler(facade).Complete, withPathID(1, "5"), nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestPaymentHandlerListForOrder(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/orders/3/payments", NewPaymentHandler(testhelpers.PaymentFacadeStub{}).ListForOrder, withPathID(1, "3"), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payments []dto.PaymentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payments); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected one payment, got %d", len(payments))
	}
}
