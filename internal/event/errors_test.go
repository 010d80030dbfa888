package event

import (
	"errors"
	"testing"
)

func TestListenerError(t *testing.T) {
	underlyingErr := errors.New("something went wrong")
	err := &ListenerError{
		Path: "app/save",
		Key:  "SG-1",
		Err:  underlyingErr,
	}

	if got := err.Error(); got != "listener SG-1 on app/save: something went wrong" {
		t.Errorf("unexpected error string: %s", got)
	}
	if err.Unwrap() != underlyingErr {
		t.Error("Unwrap() should return the underlying error")
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is should match the underlying error")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Name: "_internal/nope", Err: ErrInternalNotRegistered}

	if got := err.Error(); got != "event _internal/nope: internal event not registered" {
		t.Errorf("unexpected error string: %s", got)
	}
	if !errors.Is(err, ErrInternalNotRegistered) {
		t.Error("errors.Is should match ErrInternalNotRegistered")
	}
	if errors.Is(err, ErrInvalidPath) {
		t.Error("errors.Is should not match ErrInvalidPath")
	}

	var ce *ConfigError
	if !errors.As(error(err), &ce) || ce.Name != "_internal/nope" {
		t.Error("errors.As should extract *ConfigError")
	}
}

func TestPanicError(t *testing.T) {
	err := &PanicError{
		Value: "panic value",
		Stack: "goroutine 1 [running]:",
	}

	if got := err.Error(); got != "attempted function panicked: panic value" {
		t.Errorf("unexpected error string: %s", got)
	}
	if !errors.Is(err, ErrPanic) {
		t.Error("errors.Is should match ErrPanic")
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap() should be nil for a non-error panic value")
	}
}

func TestPanicError_ErrorValue(t *testing.T) {
	cause := errors.New("boom")
	err := &PanicError{Value: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the panicked error")
	}
	if !errors.Is(err, ErrPanic) {
		t.Error("errors.Is should still match ErrPanic")
	}
}
