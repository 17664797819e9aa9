// Package api assembles the sandbox storefront API the client can be pointed
// at in place of the real backend.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/playstation-store/api/middleware"
	"github.com/irsalhamdi/playstation-store/api/web"
	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/irsalhamdi/playstation-store/core/order"
	"github.com/irsalhamdi/playstation-store/core/user"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	Log      logrus.FieldLogger
	Products []catalog.Product
	Accounts *user.Accounts
	Issuer   user.Issuer
	Orders   *order.Book
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	a.Handle(http.MethodPost, user.LoginPath, user.HandleLogin(cfg.Accounts, cfg.Issuer))
	a.Handle(http.MethodPost, user.RegisterPath, user.HandleRegister(cfg.Accounts))

	a.Handle(http.MethodGet, "/api/products/{id}", catalog.HandleShow(cfg.Products))
	a.Handle(http.MethodGet, "/api/products", catalog.HandleList(cfg.Products))

	a.Handle(http.MethodGet, "/users", user.HandleList(cfg.Accounts))
	a.Handle(http.MethodPost, "/users", user.HandleCreate(cfg.Accounts))

	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.Orders))
	a.Handle(http.MethodPost, "/orders", order.HandleCreate(cfg.Orders))
	a.Handle(http.MethodGet, "/orders/{id}", order.HandleShow(cfg.Orders))
	a.Handle(http.MethodPut, "/orders/{id}", order.HandleUpdateStatus(cfg.Orders))
	a.Handle(http.MethodDelete, "/orders/{id}", order.HandleDelete(cfg.Orders))

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {
	handler = web.WrapMiddleware(mw, handler)
	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {
			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
