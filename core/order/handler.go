package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/playstation-store/api/web"
	"github.com/irsalhamdi/playstation-store/api/weberr"
	"github.com/irsalhamdi/playstation-store/validate"
)

func HandleList(book *Book) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, book.List(r.URL.Query().Get("email")), http.StatusOK)
	}
}

func HandleShow(book *Book) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ord, err := book.Get(web.Param(r, "id"))
		if err != nil {
			return weberr.NotFound(err)
		}
		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func HandleCreate(book *Book) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var no NewOrder
		if err := web.Decode(w, r, &no); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding order: %w", err))
		}
		if err := validate.Check(no); err != nil {
			return weberr.Invalid(err)
		}

		ord, err := book.Create(no)
		switch {
		case errors.Is(err, ErrUnknownItem), errors.Is(err, ErrNotEnoughItem):
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		case err != nil:
			return fmt.Errorf("creating order: %w", err)
		}

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

func HandleUpdateStatus(book *Book) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var up StatusUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding status: %w", err))
		}
		if err := validate.Check(up); err != nil {
			return weberr.Invalid(err)
		}

		ord, err := book.UpdateStatus(web.Param(r, "id"), up.Status)
		if err != nil {
			return weberr.NotFound(err)
		}
		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func HandleDelete(book *Book) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := book.Delete(web.Param(r, "id")); err != nil {
			return weberr.NotFound(err)
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
