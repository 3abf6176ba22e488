package user

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists and fetches user accounts.
type Repository interface {
	// Create inserts u and returns domain.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
