package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	testhelpers "github.com/mkulima/shambamart/internal/test"
	"github.com/mkulima/shambamart/internal/usecase"
)

func seedOrderWithLines(t *testing.T, orders *testhelpers.OrderRepositoryStub, buyerID int64, itemIDs ...int64) *model.Order {
	t.Helper()
	lines := make([]model.OrderLine, 0, len(itemIDs))
	for _, id := range itemIDs {
		lines = append(lines, model.OrderLine{ItemID: id, Quantity: 1, Price: decimal.NewFromInt(10)})
	}
	order, err := orders.Create(context.Background(), &model.Order{
		BuyerID:     buyerID,
		Status:      model.OrderStatusPending,
		Total:       decimal.NewFromInt(int64(10 * len(itemIDs))),
		CheckoutKey: uuid.New(),
	}, lines)
	if err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	return order
}

func TestOrderCancelReleasesItemsInReverse(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()

	first := items.Seed(2, "mbuzi", decimal.NewFromInt(10))
	second := items.Seed(2, "kuku", decimal.NewFromInt(10))
	for _, id := range []int64{first, second} {
		if _, err := items.TryReserve(context.Background(), id); err != nil {
			t.Fatalf("seed reservation failed: %v", err)
		}
	}
	order := seedOrderWithLines(t, orders, 1, first, second)

	uc := usecase.NewOrderUseCase(orders, items, discardLogger())
	if err := uc.Cancel(context.Background(), order.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := orders.GetForBuyer(context.Background(), order.ID, 1)
	if stored.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled order, got %s", stored.Status)
	}
	if len(items.Released) != 2 || items.Released[0] != second || items.Released[1] != first {
		t.Fatalf("expected reverse release order, got %v", items.Released)
	}
}

func TestOrderCancelRejectsPaidOrder(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()

	itemID := items.Seed(2, "mbuzi", decimal.NewFromInt(10))
	order := seedOrderWithLines(t, orders, 1, itemID)
	if err := orders.SetStatus(context.Background(), order.ID, model.OrderStatusPaid); err != nil {
		t.Fatalf("seed status failed: %v", err)
	}

	uc := usecase.NewOrderUseCase(orders, items, discardLogger())
	if err := uc.Cancel(context.Background(), order.ID, 1); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if len(items.Released) != 0 {
		t.Fatalf("paid order must not release items")
	}
}

func TestOrderCancelScopedToBuyer(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()
	order := seedOrderWithLines(t, orders, 1, items.Seed(2, "mbuzi", decimal.NewFromInt(10)))

	uc := usecase.NewOrderUseCase(orders, items, discardLogger())
	if err := uc.Cancel(context.Background(), order.ID, 99); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}

func TestOrderGetForBuyerHidesForeignOrders(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()
	order := seedOrderWithLines(t, orders, 1, items.Seed(2, "mbuzi", decimal.NewFromInt(10)))

	uc := usecase.NewOrderUseCase(orders, items, discardLogger())
	if _, err := uc.GetForBuyer(context.Background(), order.ID, 2); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got, err := uc.GetForBuyer(context.Background(), order.ID, 1); err != nil || got.ID != order.ID {
		t.Fatalf("expected own order, got %v %v", got, err)
	}
}
