package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/irsalhamdi/playstation-store/client"
)

const productsPath = "/api/products"

// API reads the catalog from the storefront API.
type API struct {
	c *client.Client
}

func NewAPI(c *client.Client) *API {
	return &API{c: c}
}

// List returns one page of products matching q.
func (a *API) List(ctx context.Context, q Query) ([]Product, error) {
	path := productsPath
	if v := q.Values().Encode(); v != "" {
		path += "?" + v
	}

	var products []Product
	if err := a.c.Get(ctx, path, nil, &products); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// Get returns a single product.
func (a *API) Get(ctx context.Context, id ID) (Product, error) {
	var p Product
	if err := a.c.Get(ctx, productsPath+"/"+url.PathEscape(id.String()), nil, &p); err != nil {
		return Product{}, fmt.Errorf("fetching product[%s]: %w", id, err)
	}
	if p.ID == "" {
		return Product{}, client.ShapeMismatch("GET", productsPath, fmt.Errorf("product[%s] has no id", id))
	}
	return p, nil
}
