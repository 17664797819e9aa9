package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/playstation-store/core/auth"
	"github.com/irsalhamdi/playstation-store/core/cart"
	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/irsalhamdi/playstation-store/core/order"
	"github.com/irsalhamdi/playstation-store/core/session"
	"github.com/irsalhamdi/playstation-store/core/user"
)

const usage = `COMMANDS
  login <email> <password>
  register <first name> <last name> <email> <password>
  logout
  whoami
  products [category id]
  product <id>
  brand <id>                toggle a brand filter
  category <id>             toggle a category filter
  cart [show]
  cart add <id> [quantity]
  cart inc|dec|rm <id>
  cart reset
  checkout                  place an order for the cart
  users
  orders [email]
  sandbox                   serve the sandbox API`

var errUsage = errors.New("unknown command; run with --help")

func (a *app) run(ctx context.Context, args conf.Args) error {
	switch args.Num(0) {
	case "login":
		return a.login(ctx, args.Num(1), args.Num(2))
	case "register":
		return a.register(ctx, user.RegisterForm{
			FirstName: args.Num(1),
			LastName:  args.Num(2),
			Email:     args.Num(3),
			Password:  args.Num(4),
		})
	case "logout":
		return a.sessions.Clear(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "products":
		return a.products(ctx, catalog.ID(args.Num(1)))
	case "product":
		return a.product(ctx, catalog.ID(args.Num(1)))
	case "brand":
		return a.toggle(args.Num(1), true)
	case "category":
		return a.toggle(args.Num(1), false)
	case "cart":
		return a.cartCmd(ctx, args)
	case "checkout":
		return a.checkout(ctx)
	case "users":
		return a.users(ctx)
	case "orders":
		return a.orders(ctx, args.Num(1))
	}
	return errUsage
}

func (a *app) login(ctx context.Context, email, password string) error {
	loader := session.Loader{Store: a.sessions, Log: a.log}
	if to := loader.Resolve(ctx, session.Login); to != session.Login {
		fmt.Fprintln(a.out, "already logged in; run logout first")
		return nil
	}

	f := auth.NewLogin(auth.LoginConfig{
		API:       user.NewAPI(a.api),
		Sessions:  a.sessions,
		Navigator: auth.NavigatorFunc(func(string) {}),
		Limiter:   a.limiter,
		Log:       a.log,
	})

	info, err := f.Submit(ctx, user.LoginForm{Email: email, Password: password})
	if err != nil {
		return errors.New(f.Status().Message)
	}

	fmt.Fprintf(a.out, "welcome back, %s\n", info.FirstName)
	return nil
}

func (a *app) register(ctx context.Context, form user.RegisterForm) error {
	f := auth.NewRegister(auth.RegisterConfig{
		API:     user.NewAPI(a.api),
		Limiter: a.limiter,
		Log:     a.log,
	})

	if err := f.Submit(ctx, form); err != nil {
		return errors.New(f.Status().Message)
	}

	fmt.Fprintln(a.out, "account created; you can now log in")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	sess, ok, err := a.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}

	state := "active"
	if sess.Expired(time.Now()) {
		state = "expired"
	}
	fmt.Fprintf(a.out, "%s %s <%s> (session %s)\n", sess.FirstName, sess.LastName, sess.Email, state)
	return nil
}

func (a *app) products(ctx context.Context, category catalog.ID) error {
	ps, err := catalog.NewAPI(a.api).List(ctx, catalog.Query{Category: category, Limit: catalog.MaxLimit})
	if err != nil {
		return err
	}

	st := a.cart.Snapshot()
	ps = catalog.Filter(ps, st.CheckedBrands, st.CheckedCategories)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tPRICE\tSTOCK")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Brand.Title, catalog.FormatPrice(p.Price), p.Stock)
	}
	return tw.Flush()
}

func (a *app) product(ctx context.Context, id catalog.ID) error {
	p, err := catalog.NewAPI(a.api).Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n%s\n%s | %s | %s\n", p.Name, p.Description, p.Brand.Title, p.Category.Title, catalog.FormatPrice(p.Price))
	return nil
}

func (a *app) toggle(id string, brand bool) error {
	seed, err := catalog.LoadSeed()
	if err != nil {
		return err
	}

	facets := seed.Categories
	if brand {
		facets = seed.Brands
	}
	for _, f := range facets {
		if f.ID == catalog.ID(id) {
			if brand {
				a.cart.ToggleBrand(f)
			} else {
				a.cart.ToggleCategory(f)
			}
			return a.showFilters()
		}
	}
	return fmt.Errorf("no facet with id %q", id)
}

func (a *app) showFilters() error {
	st := a.cart.Snapshot()
	fmt.Fprintf(a.out, "brands: %s\ncategories: %s\n", titles(st.CheckedBrands), titles(st.CheckedCategories))
	return nil
}

func titles(fs []catalog.Facet) string {
	if len(fs) == 0 {
		return "all"
	}
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Title
	}
	return strings.Join(names, ", ")
}

func (a *app) cartCmd(ctx context.Context, args conf.Args) error {
	id := catalog.ID(args.Num(2))

	switch args.Num(1) {
	case "", "show":
	case "add":
		qty := 1
		if n := args.Num(3); n != "" {
			v, err := strconv.Atoi(n)
			if err != nil {
				return fmt.Errorf("parsing quantity: %w", err)
			}
			qty = v
		}
		p, err := catalog.NewAPI(a.api).Get(ctx, id)
		if err != nil {
			return err
		}
		a.cart.AddItem(cart.FromProduct(p, qty))
	case "inc":
		a.cart.IncreaseQuantity(id)
	case "dec":
		a.cart.DecreaseQuantity(id)
	case "rm":
		a.cart.DeleteItem(id)
	case "reset":
		a.cart.ResetCart()
	default:
		return errUsage
	}

	return a.showCart()
}

func (a *app) showCart() error {
	st := a.cart.Snapshot()
	if st.Empty() {
		fmt.Fprintln(a.out, "your cart is empty")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tTOTAL")
	for _, it := range st.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.ID, it.Name, it.Quantity, catalog.FormatPrice(it.Price), catalog.FormatPrice(it.Total()))
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%s\n", st.Count(), catalog.FormatPrice(st.Subtotal()))
	return tw.Flush()
}

func (a *app) checkout(ctx context.Context) error {
	sess, ok, err := a.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if !ok || sess.Expired(time.Now()) {
		return errors.New("log in before checking out")
	}

	st := a.cart.Snapshot()
	if st.Empty() {
		return errors.New("no items to checkout")
	}

	ord, err := order.NewAPI(a.helper).Create(ctx, order.FromCart(sess.Email, st))
	if err != nil {
		return err
	}
	a.cart.ResetCart()

	fmt.Fprintf(a.out, "order %s placed: %s\n", ord.ID, catalog.FormatPrice(ord.Total))
	return nil
}

func (a *app) users(ctx context.Context) error {
	accounts, err := user.NewDirectory(a.helper).List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, acc := range accounts {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\n", acc.ID, acc.FirstName, acc.LastName, acc.Email)
	}
	return tw.Flush()
}

func (a *app) orders(ctx context.Context, email string) error {
	orders, err := order.NewAPI(a.helper).List(ctx, email)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tSTATUS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.Email, o.Status, catalog.FormatPrice(o.Total), o.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
