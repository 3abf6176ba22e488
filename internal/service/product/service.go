package product

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"strings"

	"golang.org/x/sync/singleflight"
	"storefront/internal/cache"
	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

// Service lists and creates catalog products. The listing is served from
// the catalog cache when one is configured.
type Service struct {
	repo   productrepo.Repository
	cache  cache.Catalog
	group  singleflight.Group
	logger *log.Logger
}

// New creates a Service. catalog and logger may be nil.
func New(repo productrepo.Repository, catalog cache.Catalog, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, cache: catalog, logger: logger}
}

// CreateInput is the admin payload. Price is a pointer so that a missing
// price can be told apart from a zero one.
type CreateInput struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// List returns every product, oldest first.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Printf("product service: cache get error=%v", err)
		}
	}

	v, err, _ := s.group.Do("products", func() (interface{}, error) {
		products, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []domain.Product{}
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, products); err != nil {
				s.logger.Printf("product service: cache set error=%v", err)
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, domain.NewError(domain.KindInternal, "Error fetching products", err)
	}
	return v.([]domain.Product), nil
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("name required")
	}
	if in.Price == nil {
		return nil, domain.Validation("price required")
	}
	if math.IsNaN(*in.Price) || math.IsInf(*in.Price, 0) {
		return nil, domain.Validation("price must be a number")
	}

	p, err := s.repo.Create(ctx, domain.Product{Name: name, Price: *in.Price})
	if err != nil {
		return nil, domain.NewError(domain.KindInternal, "Error creating product", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Printf("product service: cache invalidate error=%v", err)
		}
	}
	return p, nil
}
