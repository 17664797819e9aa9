package weberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewError(t *testing.T) {
	cause := errors.New("no such user")
	err := fmt.Errorf("logging in: %w", BadCredentials(cause, WithFields(map[string]any{"email": "a@b.com"})))

	if !errors.Is(err, cause) {
		t.Fatal("cause lost in chain")
	}

	body, status, ok := Response(err)
	if !ok {
		t.Fatal("expected a response")
	}
	if status != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", status)
	}
	if diff := cmp.Diff(&ErrorResponse{Message: "bad credentials"}, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	fields, ok := Fields(err)
	if !ok || fields["email"] != "a@b.com" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestFieldsMerge(t *testing.T) {
	inner := Wrap(errors.New("x"), WithFields(map[string]any{"a": 1, "b": 1}))
	outer := Wrap(fmt.Errorf("y: %w", inner), WithFields(map[string]any{"b": 2}))

	got, ok := Fields(outer)
	if !ok {
		t.Fatal("expected fields")
	}
	if diff := cmp.Diff(map[string]any{"a": 1, "b": 2}, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if _, ok := Fields(errors.New("plain")); ok {
		t.Fatal("plain error has no fields")
	}
	if _, _, ok := Response(errors.New("plain")); ok {
		t.Fatal("plain error has no response")
	}
}

func TestWrapSingleLink(t *testing.T) {
	cause := errors.New("x")
	err := Wrap(cause,
		WithFields(map[string]any{"a": 1}),
		WithResponse("first", http.StatusTeapot),
		WithFields(map[string]any{"b": 2}),
		WithResponse("second", http.StatusConflict),
	)
	if errors.Unwrap(err) != cause {
		t.Fatal("expected one link around the cause")
	}
	if err.Error() != "x" {
		t.Fatalf("unexpected text %q", err.Error())
	}

	body, status, _ := Response(err)
	if body != "second" || status != http.StatusConflict {
		t.Fatalf("last response should win, got %v %d", body, status)
	}
	got, _ := Fields(err)
	if diff := cmp.Diff(map[string]any{"a": 1, "b": 2}, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if Wrap(nil, WithResponse("x", http.StatusOK)) != nil {
		t.Fatal("nil error must stay nil")
	}
	if Wrap(cause) != cause {
		t.Fatal("no options must leave the error as it is")
	}
}

func TestStatus(t *testing.T) {
	inner := NotFound(errors.New("missing"))
	outer := Wrap(fmt.Errorf("loading: %w", inner), WithResponse(nil, http.StatusGone))

	tt := []struct {
		name string
		err  error
		exp  int
	}{
		{name: "plain", err: errors.New("boom"), exp: http.StatusInternalServerError},
		{name: "fields only", err: Wrap(errors.New("boom"), WithFields(map[string]any{"a": 1})), exp: http.StatusInternalServerError},
		{name: "inner", err: inner, exp: http.StatusNotFound},
		{name: "outermost wins", err: outer, exp: http.StatusGone},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := Status(tc.err); got != tc.exp {
				t.Fatalf("expected %d, got %d", tc.exp, got)
			}
		})
	}

	var re *RequestError
	if !errors.As(outer, &re) {
		t.Fatal("request error lost in chain")
	}
}
