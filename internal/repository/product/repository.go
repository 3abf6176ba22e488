package product

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists and lists catalog products.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	// Upsert creates the product or updates the price of the product with the
	// same name. Used by seeding and imports, not by the API.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
