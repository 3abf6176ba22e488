package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

const (
	msgShippingIncomplete = "Please fill out all shipping details."
	msgOrderNotSaved      = "Could not save order."
	msgUnreachable        = "Could not connect to the server."
	msgPaymentSuccess     = "Payment successful!"
	msgLoginToProceed     = "Please log in to proceed."
)

var (
	// ErrCheckoutUnavailable is returned when there is no session user or
	// the cart is empty.
	ErrCheckoutUnavailable = errors.New("storefront: checkout needs a logged in user and a non-empty cart")
	// ErrShippingIncomplete is returned when the shipping form is invalid.
	ErrShippingIncomplete = errors.New("storefront: shipping details incomplete")
)

var formValidator = validator.New()

// ShippingForm holds the checkout shipping details.
type ShippingForm struct {
	FullName   string `validate:"required,max=100"`
	Email      string `validate:"required,email"`
	Phone      string `validate:"required,min=7,max=20"`
	Address    string `validate:"required,max=200"`
	City       string `validate:"required,max=100"`
	PostalCode string `validate:"required,max=12"`
}

// Validate reports whether every field satisfies its constraint.
func (f ShippingForm) Validate() error {
	return formValidator.Struct(f)
}

// PaymentPrefill is passed to the payment widget to fill its own form.
type PaymentPrefill struct {
	Name    string
	Email   string
	Contact string
}

// PaymentResponse is what the widget reports on success.
type PaymentResponse struct {
	PaymentID string
}

// PaymentOptions configures one payment widget invocation. Amount is in
// minor units.
type PaymentOptions struct {
	Key         string
	Amount      int64
	Currency    string
	Name        string
	Description string
	Prefill     PaymentPrefill
	ThemeColor  string
	Handler     func(PaymentResponse) error
}

// PaymentWidget is the third-party payment UI. Handler is called only for a
// successful payment; failures and cancellations are not reported.
type PaymentWidget interface {
	Open(ctx context.Context, opts PaymentOptions) error
}

// CheckoutConfig holds the merchant settings for the payment widget.
type CheckoutConfig struct {
	PaymentKey   string
	MerchantName string
	ThemeColor   string
	Currency     string
}

// DefaultCheckoutConfig returns the settings used by the shell.
func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		PaymentKey:   "rzp_test_key",
		MerchantName: "Storefront",
		ThemeColor:   "#2c3e50",
		Currency:     "INR",
	}
}

type orderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// Checkout runs the checkout flow: precondition, form validation, order
// submission, payment and completion. Nothing is retried.
type Checkout struct {
	state     *State
	cart      *Cart
	orders    orderCreator
	widget    PaymentWidget
	notifier  Notifier
	navigator Navigator
	renderer  Renderer
	cfg       CheckoutConfig
}

// CheckoutDeps are the collaborators of Checkout. Renderer may be nil.
type CheckoutDeps struct {
	State     *State
	Cart      *Cart
	Orders    orderCreator
	Widget    PaymentWidget
	Notifier  Notifier
	Navigator Navigator
	Renderer  Renderer
	Config    CheckoutConfig
}

func NewCheckout(deps CheckoutDeps) *Checkout {
	cfg := deps.Config
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &Checkout{
		state:     deps.State,
		cart:      deps.Cart,
		orders:    deps.Orders,
		widget:    deps.Widget,
		notifier:  deps.Notifier,
		navigator: deps.Navigator,
		renderer:  deps.Renderer,
		cfg:       cfg,
	}
}

// Link guards the cart page checkout link. Anonymous users are sent to login.
func (c *Checkout) Link(ctx context.Context) (bool, error) {
	user, err := c.state.User(ctx)
	if err != nil {
		return false, err
	}
	if user == nil {
		c.notifier.Toast(msgLoginToProceed, true)
		c.navigator.Redirect(PageLoginCheckout)
		return false, nil
	}
	c.navigator.Redirect(PageCheckout)
	return true, nil
}

// Prepare checks the precondition and renders the order summary. Without a
// session user or with an empty cart it redirects to the cart page.
func (c *Checkout) Prepare(ctx context.Context) (*CheckoutView, error) {
	user, cart, err := c.precondition(ctx)
	if err != nil {
		return nil, err
	}
	lines := newCartView(cart)
	view := &CheckoutView{
		Lines:    lines.Lines,
		Subtotal: lines.Subtotal,
		Total:    lines.Subtotal,
		FullName: user.Name,
	}
	if c.renderer != nil {
		if err := c.renderer.RenderCheckout(*view); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Pay validates the form, stores the order and opens the payment widget.
// The order is stored before payment and is not reconciled if payment
// never completes.
func (c *Checkout) Pay(ctx context.Context, form ShippingForm) (*domain.Order, error) {
	user, cart, err := c.precondition(ctx)
	if err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		c.notifier.Toast(msgShippingIncomplete, true)
		return nil, fmt.Errorf("%w: %v", ErrShippingIncomplete, err)
	}

	subtotal := newCartView(cart).Subtotal
	req := OrderRequest{
		UserID:      user.ID,
		Products:    make([]domain.LineItem, 0, len(cart)),
		TotalAmount: subtotal.InexactFloat64(),
	}
	for _, e := range cart {
		req.Products = append(req.Products, domain.LineItem{Name: e.Name, Quantity: e.Quantity, Price: e.Price})
	}

	res, err := c.orders.CreateOrder(ctx, req)
	if err != nil {
		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr):
			msg := apiErr.Message
			if msg == "" {
				msg = msgOrderNotSaved
			}
			c.notifier.Toast(msg, true)
		default:
			c.notifier.Toast(msgUnreachable, true)
		}
		return nil, err
	}

	order := res.Order
	opts := PaymentOptions{
		Key:         c.cfg.PaymentKey,
		Amount:      MinorUnits(subtotal),
		Currency:    c.cfg.Currency,
		Name:        c.cfg.MerchantName,
		Description: "Order ID: " + order.ID,
		Prefill:     PaymentPrefill{Name: form.FullName, Email: user.Email, Contact: form.Phone},
		ThemeColor:  c.cfg.ThemeColor,
		Handler: func(PaymentResponse) error {
			return c.complete(ctx)
		},
	}
	if err := c.widget.Open(ctx, opts); err != nil {
		return &order, fmt.Errorf("open payment widget: %w", err)
	}
	return &order, nil
}

func (c *Checkout) complete(ctx context.Context) error {
	c.notifier.Toast(msgPaymentSuccess, false)
	if err := c.cart.Clear(ctx); err != nil {
		return err
	}
	c.navigator.Redirect(PageIndex)
	return nil
}

func (c *Checkout) precondition(ctx context.Context) (*SessionUser, []CartEntry, error) {
	user, err := c.state.User(ctx)
	if err != nil {
		return nil, nil, err
	}
	cart, err := c.state.Cart(ctx)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || len(cart) == 0 {
		c.navigator.Redirect(PageCart)
		return nil, nil, ErrCheckoutUnavailable
	}
	return user, cart, nil
}

// MinorUnits converts an amount to paise, the unit the payment widget takes.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
