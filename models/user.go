package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse authorization level of a User.
type Role string

const (
	RoleAgent Role = "AGENT"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is a back-office account. Agents own clients, properties and transactions.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Requester is the identity attached to an incoming request.
type Requester struct {
	ID   uuid.UUID
	Role Role
}
