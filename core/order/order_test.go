package order

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/playstation-store/api/middleware"
	"github.com/irsalhamdi/playstation-store/api/web"
	"github.com/irsalhamdi/playstation-store/client"
	"github.com/irsalhamdi/playstation-store/core/cart"
	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
)

var products = []catalog.Product{
	{ID: "1", Name: "DualSense", Price: decimal.RequireFromString("69.99"), Stock: 5},
	{ID: "2", Name: "Pulse 3D", Price: decimal.RequireFromString("99.99"), Stock: 1},
}

func serve(t *testing.T) *API {
	t.Helper()

	log, _ := test.NewNullLogger()
	book := NewBook(products)

	mw := []web.Middleware{middleware.RequestID(), middleware.Errors(log), middleware.Panics()}
	handle := func(h web.Handler) http.HandlerFunc {
		h = web.WrapMiddleware(mw, h)
		return func(w http.ResponseWriter, r *http.Request) { _ = h(r.Context(), w, r) }
	}

	r := mux.NewRouter()
	r.Handle("/orders", handle(HandleList(book))).Methods(http.MethodGet)
	r.Handle("/orders", handle(HandleCreate(book))).Methods(http.MethodPost)
	r.Handle("/orders/{id}", handle(HandleShow(book))).Methods(http.MethodGet)
	r.Handle("/orders/{id}", handle(HandleUpdateStatus(book))).Methods(http.MethodPut)
	r.Handle("/orders/{id}", handle(HandleDelete(book))).Methods(http.MethodDelete)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return NewAPI(c)
}

func TestFromCart(t *testing.T) {
	st := cart.State{Items: []cart.Item{
		cart.FromProduct(products[0], 2),
		cart.FromProduct(products[1], 1),
	}}

	exp := NewOrder{Email: "a@b.com", Items: []NewItem{{ProductID: "1", Quantity: 2}, {ProductID: "2", Quantity: 1}}}
	if diff := cmp.Diff(exp, FromCart("a@b.com", st)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBookCreate(t *testing.T) {
	book := NewBook(products)

	ord, err := book.Create(NewOrder{Email: "A@b.com", Items: []NewItem{
		{ProductID: "1", Quantity: 1},
		{ProductID: "2", Quantity: 1},
		{ProductID: "1", Quantity: 2},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ord.Items) != 2 || ord.Items[0].Quantity != 3 {
		t.Fatalf("lines not merged: %+v", ord.Items)
	}
	if !ord.Total.Equal(decimal.RequireFromString("309.96")) {
		t.Fatalf("unexpected total %s", ord.Total)
	}
	if ord.Status != Pending || ord.Email != "a@b.com" {
		t.Fatalf("unexpected order %+v", ord)
	}

	if _, err := book.Create(NewOrder{Email: "a@b.com", Items: []NewItem{{ProductID: "2", Quantity: 2}}}); err == nil {
		t.Fatal("expected a stock error")
	}
	if _, err := book.Create(NewOrder{Email: "a@b.com", Items: []NewItem{{ProductID: "9", Quantity: 1}}}); err == nil {
		t.Fatal("expected an unknown product error")
	}
	_, err = book.Create(NewOrder{Email: "a@b.com", Items: []NewItem{
		{ProductID: "1", Quantity: math.MaxInt},
		{ProductID: "1", Quantity: math.MaxInt},
	}})
	if !errors.Is(err, ErrNotEnoughItem) {
		t.Fatalf("expected a stock error for huge lines, got %v", err)
	}
	if got := book.List(""); len(got) != 1 {
		t.Fatalf("failed orders were stored: %d", len(got))
	}
}

func TestAPI(t *testing.T) {
	api := serve(t)
	ctx := context.Background()

	ord, err := api.Create(ctx, NewOrder{Email: "a@b.com", Items: []NewItem{{ProductID: "1", Quantity: 2}}})
	if err != nil {
		t.Fatal(err)
	}
	if !ord.Total.Equal(decimal.RequireFromString("139.98")) {
		t.Fatalf("unexpected total %s", ord.Total)
	}

	if _, err := api.Create(ctx, NewOrder{Email: "c@d.com", Items: []NewItem{{ProductID: "2", Quantity: 1}}}); err != nil {
		t.Fatal(err)
	}

	mine, err := api.List(ctx, "a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != ord.ID {
		t.Fatalf("unexpected orders %+v", mine)
	}

	all, err := api.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}

	up, err := api.UpdateStatus(ctx, ord.ID, Success)
	if err != nil {
		t.Fatal(err)
	}
	if up.Status != Success {
		t.Fatalf("status not updated: %+v", up)
	}

	_, err = api.UpdateStatus(ctx, ord.ID, "shipped")
	if !client.IsKind(err, client.KindHTTPStatus) {
		t.Fatalf("expected a rejected status, got %v", err)
	}

	got, err := api.Get(ctx, ord.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != Success {
		t.Fatalf("unexpected order %+v", got)
	}

	if err := api.Delete(ctx, ord.ID); err != nil {
		t.Fatal(err)
	}
	_, err = api.Get(ctx, ord.ID)
	if !client.IsKind(err, client.KindHTTPStatus) || client.Message(err) != "the resource could not be found" {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = api.Create(ctx, NewOrder{Email: "a@b.com", Items: []NewItem{{ProductID: "2", Quantity: 2}}})
	if client.Message(err) == "" || !client.IsKind(err, client.KindHTTPStatus) {
		t.Fatalf("expected out of stock rejection, got %v", err)
	}

	if _, err := api.Create(ctx, NewOrder{Email: "a@b.com"}); err == nil {
		t.Fatal("expected validation error for an empty order")
	}
}
