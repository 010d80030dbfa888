package event

import (
	"errors"
	"fmt"

	"github.com/dshills/shotgun/internal/event/dispatch"
)

// Sentinel errors for the event bus.
var (
	// ErrInternalNotRegistered is returned when subscribing under an internal
	// path that was never declared with RegisterInternal.
	ErrInternalNotRegistered = errors.New("internal event not registered")

	// ErrInvalidPath is returned when a name does not address a listenable
	// directory (the tree root, or a path with empty segments).
	ErrInvalidPath = errors.New("invalid event path")

	// ErrNilListener is returned when a nil listener is provided.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrPanic is matched by errors.Is for every *PanicError.
	ErrPanic = errors.New("attempted function panicked")
)

// ListenerError wraps an error returned by a listener during Fire.
type ListenerError = dispatch.ListenerError

// ConfigError reports a call that the bus configuration does not allow.
type ConfigError struct {
	// Name is the event name as supplied by the caller.
	Name string

	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "event " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic raised by an attempted function.
type PanicError struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("attempted function panicked: %v", e.Value)
}

// Is allows errors.Is to match PanicError with ErrPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
