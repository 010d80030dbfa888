package script

import (
	"errors"
	"fmt"
)

// Errors returned by the runtime.
var (
	// ErrClosed is returned when operating on a closed runtime.
	ErrClosed = errors.New("script runtime is closed")

	// ErrTimeout matches errors from runs that exceeded their deadline.
	ErrTimeout = errors.New("script timeout")
)

// Error describes a failed script run.
type Error struct {
	// Source is the file path or chunk name.
	Source string
	// Err is the underlying error, usually a *lua.ApiError.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
