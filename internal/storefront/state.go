package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	CartKey = "shoppingCart"
	UserKey = "loggedInUser"

	// DefaultUserName is stored for every login; the API returns no name.
	DefaultUserName = "User"
)

// CartEntry is one line of the client cart.
type CartEntry struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// SessionUser is the identity kept after a successful login.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// State reads and writes the cart and session user through a Storage.
type State struct {
	storage Storage
}

func NewState(storage Storage) *State {
	return &State{storage: storage}
}

// Cart returns the persisted cart, or an empty one when nothing is stored.
func (s *State) Cart(ctx context.Context) ([]CartEntry, error) {
	data, err := s.storage.Get(ctx, CartKey)
	if errors.Is(err, ErrKeyNotFound) {
		return []CartEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cart []CartEntry
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart == nil {
		cart = []CartEntry{}
	}
	return cart, nil
}

// SaveCart replaces the persisted cart.
func (s *State) SaveCart(ctx context.Context, cart []CartEntry) error {
	if cart == nil {
		cart = []CartEntry{}
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.storage.Set(ctx, CartKey, data)
}

// User returns the session user, or nil when logged out.
func (s *State) User(ctx context.Context) (*SessionUser, error) {
	data, err := s.storage.Get(ctx, UserKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u SessionUser
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	return &u, nil
}

func (s *State) SaveUser(ctx context.Context, u SessionUser) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	return s.storage.Set(ctx, UserKey, data)
}

func (s *State) ClearUser(ctx context.Context) error {
	return s.storage.Delete(ctx, UserKey)
}
