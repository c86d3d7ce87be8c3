package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no user row matches.
var ErrNotFound = errors.New("users: not found")

// User is the internal identity record an authenticated actor resolves to.
type User struct {
	ID          string    `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
}

// UserRepository is the read contract against the identity collaborator's
// user store. Account creation and mutation belong to that collaborator,
// not to this service.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
