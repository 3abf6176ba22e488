package cache

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// ErrCacheMiss is returned by Get when nothing is cached.
var ErrCacheMiss = errors.New("cache miss")

// Catalog caches the full product listing.
type Catalog interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context) error
}
