// Package weberr decorates errors with the HTTP response and log fields the
// sandbox middleware renders them with.
package weberr

// Opt sets one piece of decoration on the link Wrap adds to a chain.
type Opt func(*decorated)

// Wrap adds a single link carrying every decoration in opts. A nil err, or
// an empty opts, leaves err as it is.
func Wrap(err error, opts ...Opt) error {
	if err == nil || len(opts) == 0 {
		return err
	}
	d := &decorated{err: err}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithResponse sets the body and status the error renders with. The last
// one given to Wrap wins.
func WithResponse(body any, status int) Opt {
	return func(d *decorated) {
		d.body, d.status, d.responds = body, status, true
	}
}

// WithFields adds log fields to the link.
func WithFields(fields map[string]any) Opt {
	return func(d *decorated) {
		if d.fields == nil {
			d.fields = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			d.fields[k] = v
		}
	}
}

type decorated struct {
	err      error
	body     any
	status   int
	responds bool
	fields   map[string]any
}

func (d *decorated) Error() string { return d.err.Error() }

func (d *decorated) Unwrap() error { return d.err }
