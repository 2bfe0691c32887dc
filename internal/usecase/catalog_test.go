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

func TestCatalogCreateValidation(t *testing.T) {
	uc := usecase.NewCatalogUseCase(testhelpers.NewItemRepositoryStub())

	if _, err := uc.Create(context.Background(), 1, usecase.ItemInput{Name: "  "}); !errors.Is(err, domainErrors.ErrInvalidItem) {
		t.Fatalf("expected invalid item for blank name, got %v", err)
	}
	if _, err := uc.Create(context.Background(), 1, usecase.ItemInput{Name: "mbuzi", Price: decimal.NewFromInt(-5)}); !errors.Is(err, domainErrors.ErrInvalidItem) {
		t.Fatalf("expected invalid item for negative price, got %v", err)
	}
}

func TestCatalogCreateDefaultsSpecies(t *testing.T) {
	uc := usecase.NewCatalogUseCase(testhelpers.NewItemRepositoryStub())
	item, err := uc.Create(context.Background(), 1, usecase.ItemInput{Name: "bila aina", Price: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Species != "unknown" {
		t.Fatalf("expected species default, got %s", item.Species)
	}
	if !item.Available || !item.Active {
		t.Fatalf("new listing must be active and available")
	}
}

func TestCatalogUpdateRequiresOwnership(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	itemID := items.Seed(7, "mbuzi", decimal.NewFromInt(120))

	uc := usecase.NewCatalogUseCase(items)
	if _, err := uc.Update(context.Background(), 8, itemID, usecase.ItemInput{Name: "wizi"}); !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
}

func TestCatalogUpdateAppliesPartialChanges(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	itemID := items.Seed(7, "mbuzi", decimal.NewFromInt(120))

	uc := usecase.NewCatalogUseCase(items)
	item, err := uc.Update(context.Background(), 7, itemID, usecase.ItemInput{Breed: "galla"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Breed != "galla" {
		t.Fatalf("expected breed update, got %s", item.Breed)
	}
	if item.Name != "mbuzi" || !item.Price.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("untouched fields must survive, got %s %s", item.Name, item.Price)
	}

	if _, err := uc.Update(context.Background(), 7, itemID, usecase.ItemInput{Price: decimal.NewFromInt(-1)}); !errors.Is(err, domainErrors.ErrInvalidItem) {
		t.Fatalf("expected invalid item for negative price, got %v", err)
	}
}

func TestCatalogDeactivateHidesListing(t *testing.T) {
	items := testhelpers.NewItemRepositoryStub()
	itemID := items.Seed(7, "mbuzi", decimal.NewFromInt(120))

	uc := usecase.NewCatalogUseCase(items)
	if err := uc.Deactivate(context.Background(), 8, itemID); !errors.Is(err, domainErrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	if err := uc.Deactivate(context.Background(), 7, itemID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Get(context.Background(), itemID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected deactivated listing to be hidden, got %v", err)
	}
}
