package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	Home     = "/"
	Login    = "/login"
	Register = "/register"
	Shop     = "/shop"
	Cart     = "/cart"
	Product  = "/product/:id"
	Category = "/category/:category"
	About    = "/about"
	Info     = "/info"
	Help     = "/help"
	Contact  = "/contact"
	Services = "/services"
	Payment  = "/paymentgateway"
	Forums   = "/community-forums"
	Privacy  = "/privacy-policy"
)

// Routes is every route of the storefront, in menu order.
var Routes = []string{
	Home, Shop, About, Info, Help, Contact, Services, Category, Product, Cart,
	Payment, Forums, Privacy, Login, Register,
}

// Guest reports whether route is only meant for visitors without a session.
func Guest(route string) bool {
	return route == Login || route == Register
}

// Loader decides where the guest routes lead.
type Loader struct {
	Store *Store
	Log   logrus.FieldLogger
	Now   func() time.Time
}

// Load returns Home when a live session is persisted and "" to render the
// route. A session that cannot be read counts as none.
func (l Loader) Load(ctx context.Context) string {
	sess, ok, err := l.Store.Load(ctx)
	if err != nil {
		if l.Log != nil {
			l.Log.WithError(err).Warn("ignoring unreadable session")
		}
		return ""
	}
	if !ok {
		return ""
	}

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	if sess.Expired(now()) {
		return ""
	}
	return Home
}

// Resolve returns the route to show for a navigation to route.
func (l Loader) Resolve(ctx context.Context, route string) string {
	if !Guest(route) {
		return route
	}
	if to := l.Load(ctx); to != "" {
		return to
	}
	return route
}
