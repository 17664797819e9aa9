package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type echo struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Query   string            `json:"query"`
	Body    map[string]any    `json:"body"`
	Headers map[string]string `json:"headers"`
}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := echo{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Headers: map[string]string{
				"X-Custom":     r.Header.Get("X-Custom"),
				"Content-Type": r.Header.Get("Content-Type"),
			},
		}
		if r.Header.Get(RequestIDHeader) == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Body != nil {
			b, _ := io.ReadAll(r.Body)
			if len(b) > 0 {
				if err := json.Unmarshal(b, &e.Body); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(e)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(url, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return c
}

func TestVerbs(t *testing.T) {
	srv := echoServer(t)
	c := newClient(t, srv.URL+"/")
	ctx := context.Background()
	hdr := Headers{"X-Custom": "ps5"}
	body := map[string]any{"email": "a@b.com"}

	tests := []struct {
		name string
		call func(out *echo) error
		exp  echo
	}{
		{
			name: "get",
			call: func(out *echo) error { return c.Get(ctx, "/users?start=0", hdr, out) },
			exp:  echo{Method: http.MethodGet, Path: "/users", Query: "start=0", Headers: map[string]string{"X-Custom": "ps5", "Content-Type": ""}},
		},
		{
			name: "post",
			call: func(out *echo) error { return c.Post(ctx, "/users", hdr, body, out) },
			exp:  echo{Method: http.MethodPost, Path: "/users", Body: body, Headers: map[string]string{"X-Custom": "ps5", "Content-Type": "application/json"}},
		},
		{
			name: "put",
			call: func(out *echo) error { return c.Put(ctx, "/users/1", hdr, body, out) },
			exp:  echo{Method: http.MethodPut, Path: "/users/1", Body: body, Headers: map[string]string{"X-Custom": "ps5", "Content-Type": "application/json"}},
		},
		{
			name: "delete",
			call: func(out *echo) error { return c.Delete(ctx, "/users/1", hdr, out) },
			exp:  echo{Method: http.MethodDelete, Path: "/users/1", Headers: map[string]string{"X-Custom": "ps5", "Content-Type": ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got echo
			if err := tt.call(&got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.exp, got); diff != "" {
				t.Fatalf("echo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "message field", status: http.StatusUnauthorized, body: `{"message":"bad credentials"}`, message: "bad credentials"},
		{name: "error field", status: http.StatusNotFound, body: `{"error":"the resource could not be found"}`, message: "the resource could not be found"},
		{name: "message wins over error", status: http.StatusBadRequest, body: `{"error":"e","message":"m"}`, message: "m"},
		{name: "empty message falls back to error", status: http.StatusBadRequest, body: `{"error":"e","message":""}`, message: "e"},
		{name: "no message", status: http.StatusInternalServerError, body: `{"detail":"x"}`, message: UnknownError},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, message: UnknownError},
		{name: "json list", status: http.StatusForbidden, body: `["email taken"]`, message: UnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			var out map[string]any
			err := newClient(t, srv.URL).Post(context.Background(), "/api/users/login", nil, map[string]string{}, &out)

			var ce *Error
			if !errors.As(err, &ce) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if ce.Kind != KindHTTPStatus {
				t.Fatalf("expected kind %s, got %s", KindHTTPStatus, ce.Kind)
			}
			if ce.Status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, ce.Status)
			}
			if ce.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, ce.Message)
			}
			if Message(err) != tt.message {
				t.Fatalf("Message(err) = %q", Message(err))
			}
		})
	}
}

func TestShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"first_name":`},
		{name: "wrong type", body: `[1,2,3]`},
		{name: "empty body", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			var out struct {
				FirstName string `json:"first_name"`
			}
			err := newClient(t, srv.URL).Get(context.Background(), "/", nil, &out)
			if !IsKind(err, KindShapeMismatch) {
				t.Fatalf("expected shape mismatch, got %v", err)
			}
			if Message(err) != InvalidFormat {
				t.Fatalf("expected message %q, got %q", InvalidFormat, Message(err))
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newClient(t, url).Get(context.Background(), "/users", nil, nil)
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestContextCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newClient(t, srv.URL).Get(ctx, "/", nil, nil)
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

func TestBodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `"`+strings.Repeat("x", maxBodyBytes)+`"`)
	}))
	defer srv.Close()

	var out string
	err := newClient(t, srv.URL).Get(context.Background(), "/api/products", nil, &out)
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !errors.Is(err, ErrTooLarge) || Message(err) != "response too large" {
		t.Fatalf("expected ErrTooLarge in chain, got %v", err)
	}

	exact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `"`+strings.Repeat("x", maxBodyBytes-2)+`"`)
	}))
	defer exact.Close()

	if err := newClient(t, exact.URL).Get(context.Background(), "/api/products", nil, &out); err != nil {
		t.Fatalf("body at the limit: %v", err)
	}
	if len(out) != maxBodyBytes-2 {
		t.Fatalf("unexpected body length %d", len(out))
	}
}

func TestNoContentAndNilOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/nocontent" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		io.WriteString(w, `not json at all`)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	var out map[string]any
	if err := c.Delete(context.Background(), "/nocontent", nil, &out); err != nil {
		t.Fatalf("no content: %v", err)
	}
	if err := c.Get(context.Background(), "/other", nil, nil); err != nil {
		t.Fatalf("nil out should skip decoding: %v", err)
	}
}

func TestPlainTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, "Successful Registeration\n")
	}))
	defer srv.Close()

	var out string
	if err := newClient(t, srv.URL).Post(context.Background(), "/api/users/register", nil, map[string]string{}, &out); err != nil {
		t.Fatal(err)
	}
	if out != "Successful Registeration" {
		t.Fatalf("unexpected body %q", out)
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	seen := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	for i := 0; i < 2; i++ {
		if err := c.Get(context.Background(), "/", nil, nil); err != nil {
			t.Fatal(err)
		}
	}

	a, b := <-seen, <-seen
	if a == "" || a == b {
		t.Fatalf("expected two distinct request ids, got %q and %q", a, b)
	}
	if !strings.HasSuffix(b, "-2") {
		t.Fatalf("expected counter suffix, got %q", b)
	}
}

func TestNew(t *testing.T) {
	for _, u := range []string{"", "127.0.0.1:5000", "ftp://host", "http://"} {
		if _, err := New(u); err == nil {
			t.Fatalf("expected error for base url %q", u)
		}
	}

	if _, err := New("http://127.0.0.1:5000", WithHTTPClient(nil), WithTimeout(time.Second)); err != nil {
		t.Fatalf("nil http client: %v", err)
	}

	c, err := New("http://127.0.0.1:5000/")
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL() != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected base url %q", c.BaseURL())
	}
}
