package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/domain/repository"
)

// ItemInput carries seller-provided listing attributes.
type ItemInput struct {
	Name      string
	Species   string
	Breed     string
	AgeMonths *int
	Price     decimal.Decimal
}

// CatalogUseCase manages seller listings. Availability is never touched
// here; only reservation and release mutate it.
type CatalogUseCase struct {
	items repository.ItemRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(items repository.ItemRepository) *CatalogUseCase {
	return &CatalogUseCase{items: items}
}

// Create lists a new item for the seller.
func (u *CatalogUseCase) Create(ctx context.Context, sellerID int64, input ItemInput) (*model.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price.IsNegative() {
		return nil, domainErrors.ErrInvalidItem
	}
	species := input.Species
	if species == "" {
		species = "unknown"
	}

	item := &model.Item{
		SellerID:  sellerID,
		Name:      name,
		Species:   species,
		Breed:     input.Breed,
		AgeMonths: input.AgeMonths,
		Price:     input.Price,
	}
	return u.items.Create(ctx, item)
}

// ListAvailable returns items open for purchase.
func (u *CatalogUseCase) ListAvailable(ctx context.Context) ([]model.Item, error) {
	return u.items.ListAvailable(ctx)
}

// ListBySeller returns a seller's own listings.
func (u *CatalogUseCase) ListBySeller(ctx context.Context, sellerID int64) ([]model.Item, error) {
	return u.items.ListBySeller(ctx, sellerID)
}

// Get returns one active item.
func (u *CatalogUseCase) Get(ctx context.Context, id int64) (*model.Item, error) {
	return u.items.GetByID(ctx, id)
}

// Update changes listing attributes of the seller's own item.
func (u *CatalogUseCase) Update(ctx context.Context, sellerID, itemID int64, input ItemInput) (*model.Item, error) {
	item, err := u.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != sellerID {
		return nil, domainErrors.ErrNotOwner
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if input.Species != "" {
		item.Species = input.Species
	}
	if input.Breed != "" {
		item.Breed = input.Breed
	}
	if input.AgeMonths != nil {
		item.AgeMonths = input.AgeMonths
	}
	if !input.Price.IsZero() {
		if input.Price.IsNegative() {
			return nil, domainErrors.ErrInvalidItem
		}
		item.Price = input.Price
	}

	if err := u.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Deactivate withdraws the seller's listing. The row stays in place
// because order lines may reference it.
func (u *CatalogUseCase) Deactivate(ctx context.Context, sellerID, itemID int64) error {
	item, err := u.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.SellerID != sellerID {
		return domainErrors.ErrNotOwner
	}
	return u.items.Deactivate(ctx, itemID)
}
