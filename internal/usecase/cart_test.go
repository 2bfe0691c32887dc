package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	testhelpers "github.com/mkulima/shambamart/internal/test"
	"github.com/mkulima/shambamart/internal/usecase"
)

func TestCartAddRejectsInvalidQuantity(t *testing.T) {
	uc := usecase.NewCartUseCase(testhelpers.NewCartRepositoryStub(), testhelpers.NewItemRepositoryStub())
	if _, err := uc.Add(context.Background(), 1, 1, 0); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestCartAddCapturesCatalogPrice(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	carts := testhelpers.NewCartRepositoryStub()
	itemID := items.Seed(2, "mbuzi", decimal.NewFromInt(120))

	uc := usecase.NewCartUseCase(carts, items)
	line, err := uc.Add(context.Background(), 1, itemID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !line.Price.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected captured price 120, got %s", line.Price)
	}
}

func TestCartAddMergesQuantities(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	carts := testhelpers.NewCartRepositoryStub()
	itemID := items.Seed(2, "kuku", decimal.NewFromInt(15))

	uc := usecase.NewCartUseCase(carts, items)
	if _, err := uc.Add(context.Background(), 1, itemID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line, err := uc.Add(context.Background(), 1, itemID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", line.Quantity)
	}
}

func TestCartAddRejectsReservedItem(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	carts := testhelpers.NewCartRepositoryStub()
	itemID := items.Seed(2, "punda", decimal.NewFromInt(400))
	if _, err := items.TryReserve(context.Background(), itemID); err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}

	uc := usecase.NewCartUseCase(carts, items)
	_, err := uc.Add(context.Background(), 1, itemID, 1)
	var unavailable domainErrors.ItemUnavailableError
	if !errors.As(err, &unavailable) || unavailable.ItemID != itemID {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestCartUpdateQuantityValidation(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	carts := testhelpers.NewCartRepositoryStub()
	lineID := carts.SeedLine(1, items.Seed(2, "kuku", decimal.NewFromInt(15)), 1, decimal.NewFromInt(15))

	uc := usecase.NewCartUseCase(carts, items)
	if _, err := uc.UpdateQuantity(context.Background(), 1, lineID, -1); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	line, err := uc.UpdateQuantity(context.Background(), 1, lineID, 4)
	if err != nil || line.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %v %v", line, err)
	}
}

func TestCartRemoveScopedToBuyer(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	carts := testhelpers.NewCartRepositoryStub()
	lineID := carts.SeedLine(1, items.Seed(2, "kuku", decimal.NewFromInt(15)), 1, decimal.NewFromInt(15))

	uc := usecase.NewCartUseCase(carts, items)
	if err := uc.Remove(context.Background(), 2, lineID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for foreign line, got %v", err)
	}
	if err := uc.Remove(context.Background(), 1, lineID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
