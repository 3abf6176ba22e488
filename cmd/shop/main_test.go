package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/storefront"
)

func fakeAPI(t *testing.T, orders *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Login successful!","user":{"id":"u1","email":"a@example.com"}}`))
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		*orders++
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 200.0, body["totalAmount"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Order created successfully!","order":{"id":"o1"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestShop_CheckoutFlow(t *testing.T) {
	var orders int
	srv := fakeAPI(t, &orders)
	storage := storefront.NewMemoryStorage()
	var out bytes.Buffer
	app := newShop(storage, storefront.NewClient(srv.URL), storefront.TextRenderer{W: &out}, strings.NewReader("y\n"), &out)
	ctx := context.Background()

	require.NoError(t, app.run(ctx, "add", []string{"Widget", "100"}))
	require.NoError(t, app.run(ctx, "add", []string{"Widget", "100"}))

	// Anonymous checkout is sent to login.
	require.NoError(t, app.run(ctx, "checkout", nil))
	assert.Contains(t, out.String(), "-> login.html?redirect=checkout")
	assert.Equal(t, 0, orders)

	require.NoError(t, app.run(ctx, "login", []string{"a@example.com", "pw"}))
	require.NoError(t, app.run(ctx, "checkout", []string{
		"-email", "a@example.com", "-phone", "9876543210", "-address", "12 MG Road", "-city", "Pune", "-postal", "411001",
	}))

	assert.Equal(t, 1, orders)
	assert.Contains(t, out.String(), "Order ID: o1")
	assert.Contains(t, out.String(), "amount: 20000 INR")
	assert.Contains(t, out.String(), "* Payment successful!")

	items, err := storefront.NewState(storage).Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestShop_ContactAndOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/o1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"o1","userId":"u1","products":[{"name":"Widget","quantity":2,"price":100}],"totalAmount":200,"orderDate":"2024-01-02T03:04:00Z"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	app := newShop(storefront.NewMemoryStorage(), storefront.NewClient(srv.URL), storefront.TextRenderer{W: &out}, strings.NewReader(""), &out)
	ctx := context.Background()

	require.NoError(t, app.run(ctx, "contact", []string{"-name", "Asha", "-email", "a@example.com", "-message", "Hello"}))
	assert.Contains(t, out.String(), "* Thank you! Your message has been sent.")

	require.NoError(t, app.run(ctx, "order", []string{"o1"}))
	assert.Contains(t, out.String(), "Order o1 placed 2024-01-02 03:04")
	assert.Contains(t, out.String(), "Widget x2 @ 100")
	assert.Contains(t, out.String(), "Total: 200")
}

func TestShop_UnknownCommand(t *testing.T) {
	app := newShop(storefront.NewMemoryStorage(), storefront.NewClient("http://127.0.0.1:1"), storefront.TextRenderer{W: &bytes.Buffer{}}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, app.run(context.Background(), "dance", nil), errUsage)
	assert.ErrorIs(t, app.run(context.Background(), "add", []string{"only-name"}), errUsage)
}
