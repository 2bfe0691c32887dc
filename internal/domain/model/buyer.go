package model

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// Buyer is the single resolved identity the core operates on, produced
// once by authentication.
type Buyer struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
}
