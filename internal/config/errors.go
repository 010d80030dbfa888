package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig matches every ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError describes a configuration value that was rejected.
type ValidationError struct {
	// Field is the dotted setting path, e.g. "log.level".
	Field string
	// Message describes the problem.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
