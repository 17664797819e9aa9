// Package client is the single HTTP access layer of the storefront. Every
// call parses a JSON response and every failure is an *Error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/irsalhamdi/playstation-store/random"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries a per-call id so server logs can be matched with ours.
const RequestIDHeader = "X-Request-Id"

const maxBodyBytes = 1 << 20

// Headers are extra header fields sent with a single request.
type Headers map[string]string

// Client issues requests against one base URL.
type Client struct {
	base   string
	http   *http.Client
	log    logrus.FieldLogger
	prefix string
	seq    int64
}

type Option func(*Client)

// WithHTTPClient replaces the transport used to send requests. A nil
// client is ignored.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds every request, body included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for baseURL, which must be an absolute http(s) URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}

	nop := logrus.New()
	nop.SetOutput(io.Discard)

	c := &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   &http.Client{},
		log:    nop,
		prefix: random.String(10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the URL every path is appended to.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) Get(ctx context.Context, path string, headers Headers, out any) error {
	return c.Do(ctx, http.MethodGet, path, headers, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, headers Headers, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, headers, body, out)
}

func (c *Client) Put(ctx context.Context, path string, headers Headers, body any, out any) error {
	return c.Do(ctx, http.MethodPut, path, headers, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, headers Headers, out any) error {
	return c.Do(ctx, http.MethodDelete, path, headers, nil, out)
}

// Do sends one request and decodes the JSON response into out, which may be
// nil when the caller does not care about the payload. A nil body sends no
// request body at all.
func (c *Client) Do(ctx context.Context, method string, path string, headers Headers, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request body: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}

	rid := fmt.Sprintf("%s-%d", c.prefix, atomic.AddInt64(&c.seq, 1))
	req.Header.Set(RequestIDHeader, rid)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	log := c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"req_id": rid,
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return &Error{
			Kind:    KindNetwork,
			Method:  method,
			Path:    path,
			Message: "request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	msg := "reading response failed"
	if err == nil && len(raw) > maxBodyBytes {
		err, msg = ErrTooLarge, ErrTooLarge.Error()
	}
	if err != nil {
		log.WithError(err).Warn(msg)
		return &Error{
			Kind:    KindNetwork,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: msg,
			Err:     err,
		}
	}

	log = log.WithFields(logrus.Fields{
		"status": resp.StatusCode,
		"since":  time.Since(start).Nanoseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(raw)
		log.WithField("message", msg).Warn("request rejected")
		return &Error{
			Kind:    KindHTTPStatus,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: msg,
		}
	}
	log.Debug("request completed")

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw = asJSON(resp.Header.Get("Content-Type"), raw)
	if len(bytes.TrimSpace(raw)) == 0 {
		return ShapeMismatch(method, path, errors.New("empty response body"))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return ShapeMismatch(method, path, err)
	}

	return nil
}

// errorMessage picks the first non-empty of message and error from a JSON
// error body.
func errorMessage(raw []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return UnknownError
	}

	for _, key := range []string{"message", "error"} {
		var s string
		if err := json.Unmarshal(body[key], &s); err == nil && s != "" {
			return s
		}
	}
	return UnknownError
}

// asJSON turns a text/plain body into a JSON string so plain replies such as
// the registration acknowledgement decode like any other payload.
func asJSON(contentType string, raw []byte) []byte {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt != "text/plain" {
		return raw
	}

	b, err := json.Marshal(string(bytes.TrimSpace(raw)))
	if err != nil {
		return raw
	}
	return b
}
