package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/irsalhamdi/playstation-store/api/web"
	"github.com/irsalhamdi/playstation-store/random"
)

const (
	RequestIDHeader = "X-Request-Id"

	requestIDLengthLimit = 128
)

type ctxKey int

const reqIDKey ctxKey = 1

var (
	reqSeq    int64
	reqPrefix = random.String(10)
)

// RequestID keeps the id the client sent, truncated, or mints one, and
// echoes it back in the response header.
func RequestID() web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := r.Header.Get(RequestIDHeader)
			switch {
			case id == "":
				id = fmt.Sprintf("%s-%d", reqPrefix, atomic.AddInt64(&reqSeq, 1))
			case len(id) > requestIDLengthLimit:
				id = id[:requestIDLengthLimit]
			}

			w.Header().Set(RequestIDHeader, id)
			return handler(context.WithValue(ctx, reqIDKey, id), w, r)
		}
	}
}

func ContextRequestID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}
