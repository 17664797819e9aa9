package order

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/irsalhamdi/playstation-store/client"
	"github.com/irsalhamdi/playstation-store/validate"
)

// API is the integration helper over /orders.
type API struct {
	c *client.Client
}

func NewAPI(c *client.Client) *API {
	return &API{c: c}
}

// List returns every order, or those of email when it is set.
func (a *API) List(ctx context.Context, email string) ([]Order, error) {
	path := "/orders"
	if email != "" {
		path += "?" + url.Values{"email": {email}}.Encode()
	}

	var orders []Order
	if err := a.c.Get(ctx, path, nil, &orders); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func (a *API) Get(ctx context.Context, id string) (Order, error) {
	var ord Order
	if err := a.c.Get(ctx, "/orders/"+url.PathEscape(id), nil, &ord); err != nil {
		return Order{}, fmt.Errorf("fetching order[%s]: %w", id, err)
	}
	return ord, nil
}

func (a *API) Create(ctx context.Context, no NewOrder) (Order, error) {
	if err := validate.Check(no); err != nil {
		return Order{}, err
	}

	var ord Order
	if err := a.c.Post(ctx, "/orders", nil, no, &ord); err != nil {
		return Order{}, fmt.Errorf("creating order: %w", err)
	}
	if ord.ID == "" {
		return Order{}, client.ShapeMismatch(http.MethodPost, "/orders", fmt.Errorf("created order has no id"))
	}
	return ord, nil
}

func (a *API) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	var ord Order
	if err := a.c.Put(ctx, "/orders/"+url.PathEscape(id), nil, StatusUp{Status: status}, &ord); err != nil {
		return Order{}, fmt.Errorf("updating order[%s]: %w", id, err)
	}
	return ord, nil
}

func (a *API) Delete(ctx context.Context, id string) error {
	if err := a.c.Delete(ctx, "/orders/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("deleting order[%s]: %w", id, err)
	}
	return nil
}
