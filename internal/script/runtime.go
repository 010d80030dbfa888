package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shotgun/internal/event"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// ModuleName is the global under which the bus API is installed.
const ModuleName = "shotgun"

// Runtime runs Lua scripts against an event bus.
//
// gopher-lua's LState is not goroutine-safe. Runs are serialised by a
// mutex, but Lua listeners execute on whatever goroutine fires the bus, so
// events reaching Lua listeners must be fired from the goroutine that
// drives the Runtime.
type Runtime struct {
	L *lua.LState

	mu      sync.Mutex
	bus     *event.Bus
	logger  *slog.Logger
	out     io.Writer
	timeout time.Duration
	closed  bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithOutput redirects Lua print output. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds each DoString and DoFile call. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// New creates a sandboxed runtime bound to bus. Only the base, table,
// string and math libraries are available, plus the shotgun module.
func New(bus *event.Bus, opts ...Option) *Runtime {
	r := &Runtime{
		bus:     bus,
		logger:  slog.New(slog.DiscardHandler),
		out:     io.Discard,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	installPrint(r.L, r.out)
	r.L.SetGlobal(ModuleName, r.module())

	return r
}

// Bus returns the bus scripts operate on.
func (r *Runtime) Bus() *event.Bus {
	return r.bus
}

// DoString runs a chunk of Lua source.
func (r *Runtime) DoString(ctx context.Context, source string) error {
	return r.run(ctx, "<string>", func() error {
		return r.L.DoString(source)
	})
}

// DoFile runs the Lua file at path.
func (r *Runtime) DoFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func() error {
		return r.L.DoFile(path)
	})
}

func (r *Runtime) run(ctx context.Context, source string, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	start := time.Now()
	err := fn()
	r.logger.Debug("script run",
		"source", source,
		"duration", time.Since(start),
		"error", err,
	)

	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			ctxErr = fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
		}
		return &Error{Source: source, Err: ctxErr}
	}
	return &Error{Source: source, Err: err}
}

// Close releases the Lua state. Listeners already subscribed by scripts
// stay on the bus and fail with ErrClosed when fired.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.L.Close()
	r.closed = true
	return nil
}

// call invokes a Lua function with Go arguments in protected mode.
func (r *Runtime) call(fn *lua.LFunction, args []any) error {
	if r.closed {
		return ErrClosed
	}
	r.L.Push(fn)
	pushArgs(r.L, args)
	return r.L.PCall(len(args), 0, nil)
}

// listener adapts a Lua function to an event.Listener. A Lua error
// becomes the listener's error.
func (r *Runtime) listener(fn *lua.LFunction) event.Listener {
	return func(args ...any) error {
		return r.call(fn, args)
	}
}
