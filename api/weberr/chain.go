package weberr

import (
	"errors"
	"net/http"
)

// walk visits the decorated links of err from the outside in until fn
// returns false.
func walk(err error, fn func(*decorated) bool) {
	for err != nil {
		if d, ok := err.(*decorated); ok && !fn(d) {
			return
		}
		err = errors.Unwrap(err)
	}
}

// Response finds the outermost response attached to err.
func Response(err error) (body any, status int, ok bool) {
	walk(err, func(d *decorated) bool {
		if !d.responds {
			return true
		}
		body, status, ok = d.body, d.status, true
		return false
	})
	return body, status, ok
}

// Status is the status err renders with, 500 when it carries no response.
func Status(err error) int {
	if _, status, ok := Response(err); ok {
		return status
	}
	return http.StatusInternalServerError
}

// Fields collects the log fields attached anywhere in err's chain. Outer
// links win over inner ones on key clashes.
func Fields(err error) (map[string]any, bool) {
	var out map[string]any
	walk(err, func(d *decorated) bool {
		for k, v := range d.fields {
			if out == nil {
				out = map[string]any{}
			}
			if _, seen := out[k]; !seen {
				out[k] = v
			}
		}
		return true
	})
	return out, out != nil
}
