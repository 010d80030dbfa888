package event

import (
	"github.com/dshills/shotgun/internal/event/dispatch"
)

// AttemptOption configures a single Attempt call.
type AttemptOption func(*attemptConfig)

type attemptConfig struct {
	path     string
	key      string
	reported any
}

// WithErrorPath fires name, in addition to the internal tryError event,
// when the attempted function fails.
func WithErrorPath(name string) AttemptOption {
	return func(c *attemptConfig) {
		c.path = name
	}
}

// WithErrorKey restricts the failure dispatch to listeners stored under key.
func WithErrorKey(key string) AttemptOption {
	return func(c *attemptConfig) {
		c.key = key
	}
}

// WithReportedFunc replaces fn in the failure payload with v. Language
// bindings use it to hand listeners the function their caller passed in
// rather than the Go closure wrapping it.
func WithReportedFunc(v any) AttemptOption {
	return func(c *attemptConfig) {
		c.reported = v
	}
}

// Attempt calls fn and reroutes its failure through the bus instead of
// returning it. A failure is a non-nil error or a panic; a panic is
// reported as a *PanicError.
//
// On failure the error path given by WithErrorPath fires first, then the
// internal tryError event, both with (err, fn) and the key given by
// WithErrorKey. When the error path is the tryError event itself it fires
// once. Attempt never returns or re-panics fn's failure, and errors
// returned by the failure listeners are discarded.
func (b *Bus) Attempt(fn func() error, opts ...AttemptOption) {
	var cfg attemptConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	res := dispatch.Recover(fn)
	if res.IsSuccess() {
		return
	}

	var err error
	switch {
	case res.IsPanic():
		err = &PanicError{Value: res.PanicValue, Stack: string(res.PanicStack)}
	case res.IsError():
		err = res.Error
	}
	b.metrics.ObserveAttemptFailure(res.IsPanic())
	b.logger.Debug("attempt failed", "error", err, "panic", res.IsPanic(), "error_path", cfg.path, "key", cfg.key)

	var reported any = fn
	if cfg.reported != nil {
		reported = cfg.reported
	}
	payload := []any{err, reported}

	tryError := b.parser.Internal(EventTryError)
	if cfg.path != "" && !b.sameEvent(cfg.path, tryError) {
		if _, ferr := b.fire(cfg.path, cfg.key, payload); ferr != nil {
			b.logger.Debug("error path listener failed", "event", cfg.path, "error", ferr)
		}
	}
	if _, ferr := b.fire(tryError, cfg.key, payload); ferr != nil {
		b.logger.Debug("tryError listener failed", "error", ferr)
	}
}

// sameEvent reports whether two names address the same directory.
func (b *Bus) sameEvent(a, c string) bool {
	na, nc := b.parser.Parse(a), b.parser.Parse(c)
	return na.Tree == nc.Tree && na.Recursive == nc.Recursive && na.Path() == nc.Path()
}
