package order

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores orders. Orders are insert-only.
type Repository interface {
	// Create stores o verbatim and returns it with its generated id and date.
	// A malformed o.UserID yields domain.ErrInvalidID.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
}
