package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

// TotalPolicy controls how the client supplied total is treated.
type TotalPolicy string

const (
	// PolicyTrust stores totalAmount exactly as received.
	PolicyTrust TotalPolicy = "trust"
	// PolicyVerify recomputes the total from the line items and rejects
	// orders whose total disagrees.
	PolicyVerify TotalPolicy = "verify"
)

const msgServerError = "Server error while creating order"

// ParsePolicy maps a config value to a policy. Unknown values trust.
func ParsePolicy(v string) TotalPolicy {
	if strings.EqualFold(strings.TrimSpace(v), string(PolicyVerify)) {
		return PolicyVerify
	}
	return PolicyTrust
}

// Service records checkout orders.
type Service struct {
	repo   orderrepo.Repository
	policy TotalPolicy
}

// New creates a Service.
func New(repo orderrepo.Repository, policy TotalPolicy) *Service {
	if policy == "" {
		policy = PolicyTrust
	}
	return &Service{repo: repo, policy: policy}
}

// LineItemInput is one product line of the order payload.
type LineItemInput struct {
	Name     string   `json:"name"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

// CreateInput is the order payload sent at checkout.
type CreateInput struct {
	UserID      string          `json:"userId"`
	Products    []LineItemInput `json:"products"`
	TotalAmount *float64        `json:"totalAmount"`
}

// Create checks that every required field is present and stores the order
// exactly as submitted.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, domain.Validation("userId required")
	}
	if in.TotalAmount == nil {
		return nil, domain.Validation("totalAmount required")
	}
	if !finite(*in.TotalAmount) {
		return nil, domain.Validation("totalAmount must be a number")
	}

	items := make([]domain.LineItem, 0, len(in.Products))
	for i, p := range in.Products {
		switch {
		case p.Name == "":
			return nil, domain.Validation(fmt.Sprintf("products[%d].name required", i))
		case p.Quantity == nil:
			return nil, domain.Validation(fmt.Sprintf("products[%d].quantity required", i))
		case p.Price == nil || !finite(*p.Price):
			return nil, domain.Validation(fmt.Sprintf("products[%d].price must be a number", i))
		}
		items = append(items, domain.LineItem{Name: p.Name, Quantity: *p.Quantity, Price: *p.Price})
	}

	if s.policy == PolicyVerify {
		want := Total(items)
		if !sameAmount(want, decimal.NewFromFloat(*in.TotalAmount)) {
			return nil, domain.NewError(domain.KindTotalMismatch,
				fmt.Sprintf("totalAmount %v does not match line items (%s)", *in.TotalAmount, want.StringFixed(2)), nil)
		}
	}

	o, err := s.repo.Create(ctx, domain.Order{
		UserID:      in.UserID,
		LineItems:   items,
		TotalAmount: *in.TotalAmount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.NewError(domain.KindValidation, "invalid userId", err)
		}
		return nil, domain.NewError(domain.KindInternal, msgServerError, err)
	}
	return o, nil
}

// Get returns a stored order.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NewError(domain.KindNotFound, "Order not found", err)
		case errors.Is(err, domain.ErrInvalidID):
			return nil, domain.NewError(domain.KindNotFound, "Order not found", err)
		}
		return nil, domain.NewError(domain.KindInternal, "Server error", err)
	}
	return o, nil
}

// Total sums price*quantity over items without float drift.
func Total(items []domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// sameAmount compares two amounts to the paisa. Clients sum prices in binary
// floating point, so their totals carry noise below that.
func sameAmount(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
