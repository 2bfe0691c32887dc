package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/domain/repository"
	pkgAuth "github.com/mkulima/shambamart/internal/pkg/auth"
)

// AuthUseCase handles account lifecycle and token management. It is the
// single place a raw credential becomes a resolved buyer identity.
type AuthUseCase struct {
	buyers repository.BuyerRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(buyers repository.BuyerRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{buyers: buyers, hasher: hasher, tokens: strategy}
}

// Register creates a new account and returns an auth token.
func (u *AuthUseCase) Register(ctx context.Context, name, email, password string, role model.Role) (*model.Buyer, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if role == "" {
		role = model.RoleBuyer
	}
	if !role.Valid() {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	buyer, err := u.buyers.Create(ctx, name, email, hash, role)
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(buyer.ID)
	if err != nil {
		return nil, "", err
	}

	return buyer, token, nil
}

// Authenticate validates credentials and returns an auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.Buyer, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	buyer, err := u.buyers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !buyer.Active {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	if err := u.hasher.Compare(buyer.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(buyer.ID)
	if err != nil {
		return nil, "", err
	}

	return buyer, token, nil
}

// ParseToken extracts the buyer ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches a buyer by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.Buyer, error) {
	return u.buyers.GetByID(ctx, id)
}
