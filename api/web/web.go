// Package web is the small handler layer the sandbox API is built on.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler serves a request and returns the error left for the middleware
// chain to render.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

type Middleware func(Handler) Handler

// WrapMiddleware wraps handler so that mw[0] runs first.
func WrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if m := mw[i]; m != nil {
			handler = m(handler)
		}
	}
	return handler
}

// Respond writes data as a JSON body. Strings are encoded as JSON strings,
// which is how the storefront API acknowledges a registration.
func Respond(ctx context.Context, w http.ResponseWriter, data any, status int) error {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// Decode reads a JSON request body of at most 1MB into val, rejecting
// unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, val any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(val)
}

func Param(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}
