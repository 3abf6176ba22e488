package storefront

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"text/tabwriter"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("storefront").
		Funcs(template.FuncMap{"price": FormatPrice}).
		ParseFS(templateFS, "templates/*.html.tmpl"),
)

// HTMLRenderer writes page fragments to W.
type HTMLRenderer struct {
	W io.Writer
}

func (r HTMLRenderer) RenderCart(v CartView) error {
	return pageTemplates.ExecuteTemplate(r.W, "cart", v)
}

func (r HTMLRenderer) RenderHeader(v HeaderView) error {
	return pageTemplates.ExecuteTemplate(r.W, "header", v)
}

func (r HTMLRenderer) RenderCheckout(v CheckoutView) error {
	return pageTemplates.ExecuteTemplate(r.W, "checkout", v)
}

// TextRenderer writes tab-aligned views for a terminal.
type TextRenderer struct {
	W io.Writer
}

func (r TextRenderer) RenderCart(v CartView) error {
	if v.Empty() {
		_, err := fmt.Fprintln(r.W, "Your cart is currently empty.")
		return err
	}
	tw := tabwriter.NewWriter(r.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tPRICE\tQTY\tTOTAL")
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.Name, FormatPrice(l.Price), l.Quantity, FormatPrice(l.LineTotal))
	}
	fmt.Fprintf(tw, "\t\t\t%s\n", FormatPrice(v.Subtotal))
	return tw.Flush()
}

func (r TextRenderer) RenderHeader(v HeaderView) error {
	var err error
	if v.LoggedIn {
		_, err = fmt.Fprintf(r.W, "Welcome, %s | Cart (%d)\n", v.FirstName, v.CartCount)
	} else {
		_, err = fmt.Fprintf(r.W, "Login | Sign Up | Cart (%d)\n", v.CartCount)
	}
	return err
}

func (r TextRenderer) RenderCheckout(v CheckoutView) error {
	tw := tabwriter.NewWriter(r.W, 0, 4, 2, ' ', 0)
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%s (x%d)\t%s\n", l.Name, l.Quantity, FormatPrice(l.LineTotal))
	}
	fmt.Fprintf(tw, "Subtotal\t%s\n", FormatPrice(v.Subtotal))
	fmt.Fprintf(tw, "Total\t%s\n", FormatPrice(v.Total))
	return tw.Flush()
}
