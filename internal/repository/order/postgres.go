package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if _, err := uuid.Parse(o.UserID); err != nil {
		return nil, domain.ErrInvalidID
	}
	items := o.LineItems
	if items == nil {
		items = []domain.LineItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO orders (user_id, line_items, total_amount)
VALUES ($1, $2, $3)
RETURNING id::text, user_id::text, line_items, total_amount, created_at
`
	res, err := r.scanOrder(r.pool.QueryRow(ctx, q, o.UserID, itemsJSON, o.TotalAmount))
	if err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s user_id=%s items=%d total=%v", res.ID, res.UserID, len(res.LineItems), res.TotalAmount)
	return res, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidID
	}
	const q = `
SELECT id::text, user_id::text, line_items, total_amount, created_at
FROM orders
WHERE id = $1
`
	return r.scanOrder(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var itemsJSON []byte
	if err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &o.TotalAmount, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: scan error=%v", err)
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.LineItems); err != nil {
		r.logger.Printf("order repo: decode line items id=%s err=%v", o.ID, err)
		return nil, err
	}
	return &o, nil
}
