package seed

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type memoryProducts struct {
	byName map[string]domain.Product
	err    error
}

func (m *memoryProducts) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.byName[p.Name] = p
	return &p, nil
}

func TestApply_Idempotent(t *testing.T) {
	repo := &memoryProducts{byName: map[string]domain.Product{}}
	for i := 0; i < 2; i++ {
		if err := Apply(context.Background(), repo); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	if len(repo.byName) != len(Catalog) {
		t.Fatalf("expected %d products, got %d", len(Catalog), len(repo.byName))
	}
}

func TestApply_StopsOnError(t *testing.T) {
	repo := &memoryProducts{byName: map[string]domain.Product{}, err: errors.New("down")}
	if err := Apply(context.Background(), repo); err == nil {
		t.Fatalf("expected error")
	}
}
