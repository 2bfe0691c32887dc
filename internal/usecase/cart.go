package usecase

import (
	"context"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/domain/repository"
)

// CartUseCase manages a buyer's cart ahead of checkout.
type CartUseCase struct {
	carts repository.CartRepository
	items repository.ItemRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, items repository.ItemRepository) *CartUseCase {
	return &CartUseCase{carts: carts, items: items}
}

// List returns the buyer's cart lines.
func (u *CartUseCase) List(ctx context.Context, buyerID int64) ([]model.CartLine, error) {
	return u.carts.LinesFor(ctx, buyerID)
}

// Add puts an item in the cart, capturing the current catalog price.
// Adding the same item again merges quantities.
func (u *CartUseCase) Add(ctx context.Context, buyerID, itemID int64, quantity int) (*model.CartLine, error) {
	if quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}

	item, err := u.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domainErrors.ItemUnavailableError{ItemID: itemID}
	}

	line := &model.CartLine{
		BuyerID:  buyerID,
		ItemID:   itemID,
		Quantity: quantity,
		Price:    item.Price,
	}
	return u.carts.Upsert(ctx, line)
}

// UpdateQuantity changes the quantity of one cart line.
func (u *CartUseCase) UpdateQuantity(ctx context.Context, buyerID, lineID int64, quantity int) (*model.CartLine, error) {
	if quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	return u.carts.UpdateQuantity(ctx, buyerID, lineID, quantity)
}

// Remove deletes one cart line.
func (u *CartUseCase) Remove(ctx context.Context, buyerID, lineID int64) error {
	return u.carts.Delete(ctx, buyerID, lineID)
}
