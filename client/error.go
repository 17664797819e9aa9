package client

import (
	"errors"
	"fmt"
)

// Kind tells apart the ways a call can fail.
type Kind int

const (
	// KindNetwork means the request never produced a response.
	KindNetwork Kind = iota + 1
	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus
	// KindShapeMismatch means the response body does not have the expected shape.
	KindShapeMismatch
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "httpStatus"
	case KindShapeMismatch:
		return "shapeMismatch"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

const (
	// UnknownError is reported when a failed response carries no message.
	UnknownError = "Unknown error"

	// InvalidFormat is the message of shape mismatch errors.
	InvalidFormat = "invalid response format"
)

// ErrTooLarge is wrapped by the network error of a response body over 1MB.
var ErrTooLarge = errors.New("response too large")

// Error is the single error type returned by Client calls.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	case KindShapeMismatch:
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Message, e.Err)
		}
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	default:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Message, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err holds an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// Message returns the human readable message carried by err, or err's text
// when it is not an *Error.
func Message(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

// ShapeMismatch builds the error domain wrappers return when a decoded
// payload fails validation against its response type.
func ShapeMismatch(method, path string, err error) error {
	return &Error{
		Kind:    KindShapeMismatch,
		Method:  method,
		Path:    path,
		Message: InvalidFormat,
		Err:     err,
	}
}
