package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, name, price, created_at
FROM products
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, price)
VALUES ($1, $2)
RETURNING id::text, name, price, created_at
`
	var res domain.Product
	if err := r.pool.QueryRow(ctx, q, p.Name, p.Price).Scan(&res.ID, &res.Name, &res.Price, &res.CreatedAt); err != nil {
		r.logger.Printf("product repo: create name=%s error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created name=%s id=%s", res.Name, res.ID)
	return &res, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const update = `
UPDATE products SET price = $2
WHERE id = (SELECT id FROM products WHERE name = $1 ORDER BY created_at ASC LIMIT 1)
RETURNING id::text, name, price, created_at
`
	var res domain.Product
	err := r.pool.QueryRow(ctx, update, p.Name, p.Price).Scan(&res.ID, &res.Name, &res.Price, &res.CreatedAt)
	if err == nil {
		r.logger.Printf("product repo: upserted (update) name=%s id=%s", res.Name, res.ID)
		return &res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Printf("product repo: upsert name=%s error=%v", p.Name, err)
		return nil, err
	}
	return r.Create(ctx, p)
}
