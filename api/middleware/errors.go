package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/playstation-store/api/web"
	"github.com/irsalhamdi/playstation-store/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors logs a handler error with its attached fields and renders the
// response it carries, or a 500 when it carries none.
func Errors(log logrus.FieldLogger) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := logrus.Fields{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			status := weberr.Status(err)
			body, _, ok := weberr.Response(err)
			if !ok {
				body = weberr.ErrorResponse{Message: http.StatusText(status)}
			}

			entry := log.WithFields(fields)
			if status >= http.StatusInternalServerError {
				entry.Error("ERROR")
			} else {
				entry.Warn("request rejected")
			}

			return web.Respond(ctx, w, body, status)
		}
	}
}
