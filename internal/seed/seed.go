package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Catalog is the demo catalog loaded by Apply.
var Catalog = []domain.Product{
	{Name: "Handcrafted Wooden Bowl", Price: 1299},
	{Name: "Brass Diya Set", Price: 899},
	{Name: "Cotton Block-Print Cushion Cover", Price: 649},
	{Name: "Terracotta Planter", Price: 499},
	{Name: "Jute Table Runner", Price: 1999},
}

// Apply upserts the demo catalog by product name. Running it twice leaves a
// single copy of each product.
func Apply(ctx context.Context, repo ProductWriter) error {
	for _, p := range Catalog {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	return nil
}
