package storefront

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cart is the client cart controller. Every mutation persists the whole
// cart and re-renders the cart view and the header counter.
type Cart struct {
	state    *State
	renderer Renderer
	notifier Notifier
}

// NewCart builds a Cart. renderer and notifier may be nil.
func NewCart(state *State, renderer Renderer, notifier Notifier) *Cart {
	return &Cart{state: state, renderer: renderer, notifier: notifier}
}

// Add puts one unit of the named product in the cart.
func (c *Cart) Add(ctx context.Context, name string, price float64) error {
	err := c.mutate(ctx, func(cart []CartEntry) []CartEntry {
		if i := indexOf(cart, name); i >= 0 {
			cart[i].Quantity++
			return cart
		}
		return append(cart, CartEntry{Name: name, Price: price, Quantity: 1})
	})
	if err != nil {
		return err
	}
	if c.notifier != nil {
		c.notifier.Toast(fmt.Sprintf("%s was added to your cart.", name), false)
	}
	return nil
}

func (c *Cart) Increase(ctx context.Context, name string) error {
	return c.mutate(ctx, func(cart []CartEntry) []CartEntry {
		if i := indexOf(cart, name); i >= 0 {
			cart[i].Quantity++
		}
		return cart
	})
}

// Decrease removes one unit; the entry goes away when none are left.
func (c *Cart) Decrease(ctx context.Context, name string) error {
	return c.mutate(ctx, func(cart []CartEntry) []CartEntry {
		i := indexOf(cart, name)
		if i < 0 {
			return cart
		}
		cart[i].Quantity--
		if cart[i].Quantity <= 0 {
			return append(cart[:i], cart[i+1:]...)
		}
		return cart
	})
}

func (c *Cart) Remove(ctx context.Context, name string) error {
	return c.mutate(ctx, func(cart []CartEntry) []CartEntry {
		if i := indexOf(cart, name); i >= 0 {
			return append(cart[:i], cart[i+1:]...)
		}
		return cart
	})
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	return c.mutate(ctx, func([]CartEntry) []CartEntry {
		return []CartEntry{}
	})
}

func (c *Cart) Items(ctx context.Context) ([]CartEntry, error) {
	return c.state.Cart(ctx)
}

// Count is the number of units in the cart.
func (c *Cart) Count(ctx context.Context) (int, error) {
	cart, err := c.state.Cart(ctx)
	if err != nil {
		return 0, err
	}
	return newCartView(cart).Count, nil
}

// Subtotal is the sum of price times quantity.
func (c *Cart) Subtotal(ctx context.Context) (decimal.Decimal, error) {
	cart, err := c.state.Cart(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return newCartView(cart).Subtotal, nil
}

// Render draws the cart and header from the persisted state.
func (c *Cart) Render(ctx context.Context) error {
	cart, err := c.state.Cart(ctx)
	if err != nil {
		return err
	}
	return c.render(ctx, cart)
}

func (c *Cart) mutate(ctx context.Context, fn func([]CartEntry) []CartEntry) error {
	cart, err := c.state.Cart(ctx)
	if err != nil {
		return err
	}
	cart = fn(cart)
	if err := c.state.SaveCart(ctx, cart); err != nil {
		return err
	}
	return c.render(ctx, cart)
}

func (c *Cart) render(ctx context.Context, cart []CartEntry) error {
	if c.renderer == nil {
		return nil
	}
	view := newCartView(cart)
	if err := c.renderer.RenderCart(view); err != nil {
		return err
	}
	user, err := c.state.User(ctx)
	if err != nil {
		return err
	}
	return c.renderer.RenderHeader(newHeaderView(user, view.Count))
}

func indexOf(cart []CartEntry, name string) int {
	for i, e := range cart {
		if e.Name == name {
			return i
		}
	}
	return -1
}
