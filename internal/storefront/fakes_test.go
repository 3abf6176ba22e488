package storefront

import (
	"context"
)

type toast struct {
	Message string
	IsError bool
}

type recordingNotifier struct {
	toasts []toast
}

func (n *recordingNotifier) Toast(message string, isError bool) {
	n.toasts = append(n.toasts, toast{Message: message, IsError: isError})
}

func (n *recordingNotifier) last() toast {
	if len(n.toasts) == 0 {
		return toast{}
	}
	return n.toasts[len(n.toasts)-1]
}

type recordingRenderer struct {
	carts     []CartView
	headers   []HeaderView
	checkouts []CheckoutView
}

func (r *recordingRenderer) RenderCart(v CartView) error {
	r.carts = append(r.carts, v)
	return nil
}

func (r *recordingRenderer) RenderHeader(v HeaderView) error {
	r.headers = append(r.headers, v)
	return nil
}

func (r *recordingRenderer) RenderCheckout(v CheckoutView) error {
	r.checkouts = append(r.checkouts, v)
	return nil
}

type stubOrders struct {
	result *OrderResult
	err    error
	calls  int
	last   OrderRequest
}

func (s *stubOrders) CreateOrder(_ context.Context, req OrderRequest) (*OrderResult, error) {
	s.calls++
	s.last = req
	return s.result, s.err
}

// stubWidget records the options and optionally reports success right away.
type stubWidget struct {
	opened  int
	opts    PaymentOptions
	succeed bool
	err     error
}

func (w *stubWidget) Open(_ context.Context, opts PaymentOptions) error {
	w.opened++
	w.opts = opts
	if w.err != nil {
		return w.err
	}
	if w.succeed {
		return opts.Handler(PaymentResponse{PaymentID: "pay_1"})
	}
	return nil
}

type stubAccountAPI struct {
	registerMsg string
	registerErr error
	login       *LoginResult
	loginErr    error
}

func (s *stubAccountAPI) Register(_ context.Context, _, _ string) (string, error) {
	return s.registerMsg, s.registerErr
}

func (s *stubAccountAPI) Login(_ context.Context, _, _ string) (*LoginResult, error) {
	return s.login, s.loginErr
}
