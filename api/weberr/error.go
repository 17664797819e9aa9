package weberr

import (
	"net/http"
)

// ErrorResponse is the body of every failed request. The storefront client
// reads the message field first.
type ErrorResponse struct {
	Message string `json:"message"`
}

type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// NewError wraps err so that the client receives msg with the given status.
func NewError(err error, msg string, status int, opts ...Opt) error {
	e := &RequestError{Err: err}
	opts = append(opts, WithResponse(&ErrorResponse{Message: msg}, status))

	return Wrap(e, opts...)
}

func NotFound(err error, opts ...Opt) error {
	return NewError(err, "the resource could not be found", http.StatusNotFound, opts...)
}

func BadCredentials(err error, opts ...Opt) error {
	return NewError(err, "bad credentials", http.StatusUnauthorized, opts...)
}

func BadRequest(err error, opts ...Opt) error {
	return NewError(err, "bad request", http.StatusBadRequest, opts...)
}

// Invalid reports a request that failed validation, echoing the reason.
func Invalid(err error, opts ...Opt) error {
	return NewError(err, err.Error(), http.StatusBadRequest, opts...)
}

func Forbidden(err error, msg string, opts ...Opt) error {
	return NewError(err, msg, http.StatusForbidden, opts...)
}

func InternalError(err error, opts ...Opt) error {
	return NewError(err, "the server encountered a problem and could not process your request", http.StatusInternalServerError, opts...)
}
