package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/irsalhamdi/playstation-store/api/web"
	"github.com/irsalhamdi/playstation-store/api/weberr"
)

// Panics turns a panicking handler into an internal error. It must sit
// inside Errors so the error is rendered.
func Panics() web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = weberr.InternalError(
						fmt.Errorf("panic: %v", rec),
						weberr.WithFields(map[string]any{"trace": string(debug.Stack())}),
					)
				}
			}()
			return handler(ctx, w, r)
		}
	}
}
