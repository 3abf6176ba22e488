package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"storefront/internal/storefront"
)

const usage = `usage: shop [flags] <command> [args]

commands:
  products                 list the catalog
  add <name> <price>       add one unit to the cart
  inc <name>               increase quantity
  dec <name>               decrease quantity
  remove <name>            remove from cart
  clear                    empty the cart
  cart                     show the cart
  register <email> <pw>    create an account
  login <email> <pw>       log in
  logout                   log out
  checkout [shipping flags] place the order and pay
  order <id>               show a stored order
  contact [contact flags]  send a message to the shop

flags:
`

func main() {
	fs := flag.NewFlagSet("shop", flag.ExitOnError)
	apiURL := fs.String("api", envOrDefault("STOREFRONT_API", "http://localhost:3001"), "API base URL")
	stateDir := fs.String("state-dir", defaultStateDir(), "directory for the local cart and session")
	redisAddr := fs.String("redis", "", "keep cart and session in Redis at this address instead of files")
	html := fs.Bool("html", false, "render views as HTML fragments")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "[shop] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	storage, closeStorage, err := openStorage(*stateDir, *redisAddr)
	if err != nil {
		logger.Fatalf("open storage: %v", err)
	}
	defer closeStorage()

	var renderer storefront.Renderer = storefront.TextRenderer{W: os.Stdout}
	if *html {
		renderer = storefront.HTMLRenderer{W: os.Stdout}
	}

	app := newShop(storage, storefront.NewClient(*apiURL), renderer, os.Stdin, os.Stdout)
	if err := app.run(context.Background(), fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			os.Exit(2)
		}
		logger.Printf("%s: %v", fs.Arg(0), err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

type shop struct {
	state    *storefront.State
	client   *storefront.Client
	cart     *storefront.Cart
	account  *storefront.Account
	checkout *storefront.Checkout
	renderer storefront.Renderer
	notifier storefront.Notifier
	out      io.Writer
}

func newShop(storage storefront.Storage, client *storefront.Client, renderer storefront.Renderer, in io.Reader, out io.Writer) *shop {
	state := storefront.NewState(storage)
	notifier := storefront.WriterNotifier{W: out}
	navigator := &storefront.PageNavigator{W: out}
	cart := storefront.NewCart(state, renderer, notifier)
	return &shop{
		state:    state,
		client:   client,
		cart:     cart,
		account:  storefront.NewAccount(state, client, notifier, navigator, renderer),
		renderer: renderer,
		notifier: notifier,
		out:      out,
		checkout: storefront.NewCheckout(storefront.CheckoutDeps{
			State:     state,
			Cart:      cart,
			Orders:    client,
			Widget:    &consoleWidget{in: bufio.NewReader(in), out: out},
			Notifier:  notifier,
			Navigator: navigator,
			Renderer:  renderer,
			Config:    storefront.DefaultCheckoutConfig(),
		}),
	}
}

func (s *shop) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "products":
		return s.products(ctx)
	case "add":
		if len(args) != 2 {
			return errUsage
		}
		price, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", args[1])
		}
		return s.cart.Add(ctx, args[0], price)
	case "inc", "dec", "remove":
		if len(args) != 1 {
			return errUsage
		}
		switch cmd {
		case "inc":
			return s.cart.Increase(ctx, args[0])
		case "dec":
			return s.cart.Decrease(ctx, args[0])
		}
		return s.cart.Remove(ctx, args[0])
	case "clear":
		return s.cart.Clear(ctx)
	case "cart":
		return s.cart.Render(ctx)
	case "register":
		if len(args) != 2 {
			return errUsage
		}
		return s.account.Register(ctx, args[0], args[1])
	case "login":
		if len(args) != 2 {
			return errUsage
		}
		_, err := s.account.Login(ctx, args[0], args[1])
		return err
	case "logout":
		return s.account.Logout(ctx)
	case "checkout":
		return s.runCheckout(ctx, args)
	case "order":
		if len(args) != 1 {
			return errUsage
		}
		return s.order(ctx, args[0])
	case "contact":
		return s.contact(args)
	default:
		return errUsage
	}
}

func (s *shop) products(ctx context.Context) error {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products yet.")
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "%s\t%v\n", p.Name, p.Price)
	}
	return nil
}

func (s *shop) order(ctx context.Context, id string) error {
	o, err := s.client.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Order %s placed %s\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04"))
	for _, it := range o.LineItems {
		fmt.Fprintf(s.out, "  %s x%d @ %v\n", it.Name, it.Quantity, it.Price)
	}
	fmt.Fprintf(s.out, "Total: %v\n", o.TotalAmount)
	return nil
}

func (s *shop) contact(args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.SetOutput(s.out)
	var form storefront.ContactForm
	fs.StringVar(&form.Name, "name", "", "your name")
	fs.StringVar(&form.Email, "email", "", "your email")
	fs.StringVar(&form.Message, "message", "", "message")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return storefront.SubmitContact(s.notifier, form)
}

func (s *shop) runCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(s.out)
	var form storefront.ShippingForm
	fs.StringVar(&form.FullName, "name", "", "full name")
	fs.StringVar(&form.Email, "email", "", "email")
	fs.StringVar(&form.Phone, "phone", "", "phone number")
	fs.StringVar(&form.Address, "address", "", "street address")
	fs.StringVar(&form.City, "city", "", "city")
	fs.StringVar(&form.PostalCode, "postal", "", "postal code")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	ok, err := s.checkout.Link(ctx)
	if err != nil || !ok {
		return err
	}
	view, err := s.checkout.Prepare(ctx)
	if err != nil {
		return err
	}
	if form.FullName == "" {
		form.FullName = view.FullName
	}
	_, err = s.checkout.Pay(ctx, form)
	return err
}

// consoleWidget stands in for the hosted payment page: it prints the request
// and treats a "y" answer as a successful payment.
type consoleWidget struct {
	in  *bufio.Reader
	out io.Writer
}

func (w *consoleWidget) Open(_ context.Context, opts storefront.PaymentOptions) error {
	fmt.Fprintf(w.out, "%s\n  %s\n  amount: %d %s (minor units)\n  payer: %s <%s> %s\nPay now? [y/N] ",
		opts.Name, opts.Description, opts.Amount, opts.Currency,
		opts.Prefill.Name, opts.Prefill.Email, opts.Prefill.Contact)
	answer, err := w.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		fmt.Fprintln(w.out, "Payment window closed.")
		return nil
	}
	return opts.Handler(storefront.PaymentResponse{PaymentID: "console"})
}

func openStorage(dir, redisAddr string) (storefront.Storage, func(), error) {
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		return storefront.NewRedisStorage(client, ""), func() { client.Close() }, nil
	}
	fsStorage, err := storefront.NewFileStorage(dir)
	if err != nil {
		return nil, nil, err
	}
	return fsStorage, func() {}, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
