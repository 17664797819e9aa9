package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/playstation-store/api/web"
	"github.com/irsalhamdi/playstation-store/api/weberr"
)

func HandleList(products []Product) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		q, err := ParseQuery(r.URL.Query())
		if err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		return web.Respond(ctx, w, q.Apply(products), http.StatusOK)
	}
}

func HandleShow(products []Product) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := ID(web.Param(r, "id"))

		for _, p := range products {
			if p.ID == id {
				return web.Respond(ctx, w, p, http.StatusOK)
			}
		}

		return weberr.NotFound(fmt.Errorf("product[%s] not found", id))
	}
}
