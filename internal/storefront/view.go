package storefront

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CartLine is a cart entry with its line total.
type CartLine struct {
	Name      string
	Price     decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// CartView is what the cart page shows.
type CartView struct {
	Lines    []CartLine
	Count    int
	Subtotal decimal.Decimal
}

func (v CartView) Empty() bool { return len(v.Lines) == 0 }

// HeaderView is the account area and cart counter of every page.
type HeaderView struct {
	LoggedIn  bool
	FirstName string
	CartCount int
}

// CheckoutView is the order summary of the checkout page.
type CheckoutView struct {
	Lines    []CartLine
	Subtotal decimal.Decimal
	Total    decimal.Decimal
	FullName string
}

// Renderer draws the views after state changes.
type Renderer interface {
	RenderCart(v CartView) error
	RenderHeader(v HeaderView) error
	RenderCheckout(v CheckoutView) error
}

func newCartView(cart []CartEntry) CartView {
	v := CartView{Lines: make([]CartLine, 0, len(cart)), Subtotal: decimal.Zero}
	for _, e := range cart {
		price := decimal.NewFromFloat(e.Price)
		total := price.Mul(decimal.NewFromInt(int64(e.Quantity)))
		v.Lines = append(v.Lines, CartLine{Name: e.Name, Price: price, Quantity: e.Quantity, LineTotal: total})
		v.Count += e.Quantity
		v.Subtotal = v.Subtotal.Add(total)
	}
	return v
}

func newHeaderView(u *SessionUser, count int) HeaderView {
	v := HeaderView{CartCount: count}
	if u != nil {
		v.LoggedIn = true
		v.FirstName = firstName(u.Name)
	}
	return v
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return DefaultUserName
	}
	return fields[0]
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount with thousands grouping and the rupee sign.
// Whole amounts carry no decimals.
func FormatPrice(d decimal.Decimal) string {
	if d.IsInteger() {
		return "₹" + pricePrinter.Sprintf("%d", d.IntPart())
	}
	return "₹" + pricePrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
