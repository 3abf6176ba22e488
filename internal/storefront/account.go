package storefront

import (
	"context"
	"errors"
)

const msgLoggedOut = "You have been logged out."

type accountAPI interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// Account runs register, login and logout and draws the header.
type Account struct {
	state     *State
	api       accountAPI
	notifier  Notifier
	navigator Navigator
	renderer  Renderer
}

// NewAccount builds an Account. renderer may be nil.
func NewAccount(state *State, api accountAPI, notifier Notifier, navigator Navigator, renderer Renderer) *Account {
	return &Account{state: state, api: api, notifier: notifier, navigator: navigator, renderer: renderer}
}

// Register creates an account and sends the user to the login page.
func (a *Account) Register(ctx context.Context, email, password string) error {
	msg, err := a.api.Register(ctx, email, password)
	if err != nil {
		a.toastFailure(err)
		return err
	}
	a.notifier.Toast(msg, false)
	a.navigator.Redirect(PageLogin)
	return nil
}

// Login stores the session user and sends the user to the home page.
func (a *Account) Login(ctx context.Context, email, password string) (*SessionUser, error) {
	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.toastFailure(err)
		return nil, err
	}
	user := SessionUser{ID: res.User.ID, Email: res.User.Email, Name: DefaultUserName}
	if err := a.state.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	a.notifier.Toast(res.Message, false)
	a.navigator.Redirect(PageIndex)
	return &user, a.RenderHeader(ctx)
}

// Logout forgets the session user. The cart is kept.
func (a *Account) Logout(ctx context.Context) error {
	if err := a.state.ClearUser(ctx); err != nil {
		return err
	}
	a.notifier.Toast(msgLoggedOut, false)
	return a.RenderHeader(ctx)
}

// RenderHeader draws the account area and cart counter.
func (a *Account) RenderHeader(ctx context.Context) error {
	if a.renderer == nil {
		return nil
	}
	user, err := a.state.User(ctx)
	if err != nil {
		return err
	}
	cart, err := a.state.Cart(ctx)
	if err != nil {
		return err
	}
	return a.renderer.RenderHeader(newHeaderView(user, newCartView(cart).Count))
}

func (a *Account) toastFailure(err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		a.notifier.Toast(apiErr.Message, true)
		return
	}
	a.notifier.Toast(msgUnreachable, true)
}
