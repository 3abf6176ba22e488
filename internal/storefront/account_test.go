package storefront

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

func newTestAccount(api *stubAccountAPI) (*Account, *State, *recordingNotifier, *PageNavigator, *recordingRenderer) {
	state := NewState(NewMemoryStorage())
	notifier := &recordingNotifier{}
	navigator := &PageNavigator{}
	renderer := &recordingRenderer{}
	return NewAccount(state, api, notifier, navigator, renderer), state, notifier, navigator, renderer
}

func TestAccount_Register(t *testing.T) {
	account, _, notifier, navigator, _ := newTestAccount(&stubAccountAPI{registerMsg: "User created successfully!"})

	require.NoError(t, account.Register(context.Background(), "a@example.com", "pw"))
	assert.Equal(t, toast{Message: "User created successfully!"}, notifier.last())
	assert.Equal(t, PageLogin, navigator.Current)
}

func TestAccount_RegisterConflict(t *testing.T) {
	apiErr := &APIError{Status: 409, Kind: domain.KindConflict, Message: "User with this email already exists."}
	account, _, notifier, navigator, _ := newTestAccount(&stubAccountAPI{registerErr: apiErr})

	assert.Error(t, account.Register(context.Background(), "a@example.com", "pw"))
	assert.Equal(t, toast{Message: "User with this email already exists.", IsError: true}, notifier.last())
	assert.Empty(t, navigator.Current)
}

func TestAccount_LoginStoresSessionUser(t *testing.T) {
	res := &LoginResult{Message: "Login successful!"}
	res.User.ID = "u1"
	res.User.Email = "a@example.com"
	account, state, notifier, navigator, renderer := newTestAccount(&stubAccountAPI{login: res})
	ctx := context.Background()

	_, err := account.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	user, err := state.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SessionUser{ID: "u1", Email: "a@example.com", Name: "User"}, user)
	assert.Equal(t, toast{Message: "Login successful!"}, notifier.last())
	assert.Equal(t, PageIndex, navigator.Current)
	require.NotEmpty(t, renderer.headers)
	assert.Equal(t, HeaderView{LoggedIn: true, FirstName: "User"}, renderer.headers[len(renderer.headers)-1])
}

func TestAccount_LoginFailures(t *testing.T) {
	ctx := context.Background()

	account, state, notifier, _, _ := newTestAccount(&stubAccountAPI{
		loginErr: &APIError{Status: 401, Kind: domain.KindInvalidCredentials, Message: "Invalid credentials."},
	})
	_, err := account.Login(ctx, "a@example.com", "bad")
	assert.Error(t, err)
	assert.Equal(t, toast{Message: "Invalid credentials.", IsError: true}, notifier.last())
	user, err := state.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	account, _, notifier, _, _ = newTestAccount(&stubAccountAPI{loginErr: fmt.Errorf("%w: dial tcp", ErrUnreachable)})
	_, err = account.Login(ctx, "a@example.com", "pw")
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Equal(t, toast{Message: "Could not connect to the server.", IsError: true}, notifier.last())
}

func TestAccount_LogoutKeepsCart(t *testing.T) {
	account, state, notifier, _, renderer := newTestAccount(&stubAccountAPI{})
	ctx := context.Background()
	require.NoError(t, state.SaveUser(ctx, SessionUser{ID: "u1", Name: "Asha Rao"}))
	require.NoError(t, state.SaveCart(ctx, []CartEntry{{Name: "Widget", Price: 1, Quantity: 3}}))

	require.NoError(t, account.Logout(ctx))

	user, err := state.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
	cart, err := state.Cart(ctx)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Equal(t, toast{Message: "You have been logged out."}, notifier.last())
	assert.Equal(t, HeaderView{CartCount: 3}, renderer.headers[len(renderer.headers)-1])
}

func TestHeaderView_FirstName(t *testing.T) {
	assert.Equal(t, "Asha", newHeaderView(&SessionUser{Name: "Asha Rao"}, 0).FirstName)
	assert.Equal(t, "User", newHeaderView(&SessionUser{Name: "  "}, 0).FirstName)
	assert.False(t, newHeaderView(nil, 2).LoggedIn)
}
