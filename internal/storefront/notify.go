package storefront

import (
	"fmt"
	"io"
)

// Notifier shows short transient messages.
type Notifier interface {
	Toast(message string, isError bool)
}

// Navigator moves the user to another page.
type Navigator interface {
	Redirect(page string)
}

const (
	PageIndex         = "index.html"
	PageCart          = "cart.html"
	PageCheckout      = "checkout.html"
	PageLogin         = "login.html"
	PageLoginCheckout = "login.html?redirect=checkout"
)

// WriterNotifier prints toasts as lines on W.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Toast(message string, isError bool) {
	if isError {
		fmt.Fprintf(n.W, "! %s\n", message)
		return
	}
	fmt.Fprintf(n.W, "* %s\n", message)
}

// PageNavigator remembers the last page it was sent to.
type PageNavigator struct {
	Current string
	W       io.Writer
}

func (n *PageNavigator) Redirect(page string) {
	n.Current = page
	if n.W != nil {
		fmt.Fprintf(n.W, "-> %s\n", page)
	}
}
