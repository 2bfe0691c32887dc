package repository

import (
	"context"

	"github.com/mkulima/shambamart/internal/domain/model"
)

// BuyerRepository describes persistence operations for accounts.
type BuyerRepository interface {
	Create(ctx context.Context, name, email, passwordHash string, role model.Role) (*model.Buyer, error)
	GetByEmail(ctx context.Context, email string) (*model.Buyer, error)
	GetByID(ctx context.Context, id int64) (*model.Buyer, error)
}
