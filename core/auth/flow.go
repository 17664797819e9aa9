// Package auth drives the login and registration forms: each submission
// moves the form through loading to success or error.
package auth

import (
	"errors"
	"io"
	"sync"

	"github.com/irsalhamdi/playstation-store/client"
	"github.com/irsalhamdi/playstation-store/rate"
	"github.com/sirupsen/logrus"
)

type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

// Status is what the form renders. Message is only set in the error state.
type Status struct {
	State   State
	Message string
}

// ErrThrottled is returned for a submission rejected by the limiter.
var ErrThrottled = errors.New("too many attempts")

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// flow is the state shared by both forms. Submissions are neither
// serialized nor deduplicated; each one writes its own transitions.
type flow struct {
	mu        sync.Mutex
	status    Status
	history   []State
	observers []func(Status)

	prefix  string
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

func newFlow(prefix string, limiter *rate.Limiter, log logrus.FieldLogger) *flow {
	if log == nil {
		nop := logrus.New()
		nop.SetOutput(io.Discard)
		log = nop
	}
	return &flow{
		history: []State{Idle},
		prefix:  prefix,
		limiter: limiter,
		log:     log,
	}
}

// Status returns the current form status.
func (f *flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// History returns every state the form has been in, starting with Idle.
func (f *flow) History() []State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]State(nil), f.history...)
}

// Observe registers fn to receive every status change.
func (f *flow) Observe(fn func(Status)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
}

func (f *flow) set(st Status) {
	f.mu.Lock()
	f.status = st
	f.history = append(f.history, st.State)
	obs := make([]func(Status), len(f.observers))
	copy(obs, f.observers)
	f.mu.Unlock()

	for _, fn := range obs {
		fn(st)
	}
}

// begin enters Loading, or Error straight after it when key is throttled.
func (f *flow) begin(key string) error {
	f.set(Status{State: Loading})

	if !f.limiter.Allow(key) {
		f.fail(ErrThrottled)
		return ErrThrottled
	}
	return nil
}

func (f *flow) fail(err error) {
	msg := f.prefix + ": " + describe(err)
	f.log.WithError(err).Warn(msg)
	f.set(Status{State: Error, Message: msg})
}

func (f *flow) succeed() {
	f.set(Status{State: Success})
}

// describe returns what the user is shown for err: the server message for
// transport errors and the error text otherwise.
func describe(err error) string {
	var ce *client.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
