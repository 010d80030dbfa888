package event

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/shotgun/internal/event/directory"
	"github.com/dshills/shotgun/internal/event/dispatch"
	"github.com/dshills/shotgun/internal/event/keygen"
	"github.com/dshills/shotgun/internal/event/metrics"
	"github.com/dshills/shotgun/internal/event/path"
)

// Version is the library version.
const Version = "3.1.0"

// Built-in internal events, registered by NewBus.
const (
	// EventNewListener fires after every subscription with
	// (path string, key string, fn Listener).
	EventNewListener = "newListener"

	// EventRmEvent fires after a directory is removed with (path string).
	EventRmEvent = "rmEvent"

	// EventRmListener fires after a keyed removal with (path string, key string).
	EventRmListener = "rmListener"

	// EventTryError fires when an attempted function fails with
	// (err error, fn func() error).
	EventTryError = "tryError"
)

// Listener is a function subscribed to an event directory.
// Returning a non-nil error aborts the Fire that invoked it and is returned
// to the publisher wrapped in a *ListenerError.
type Listener = directory.Listener

// Snapshot is a read-only copy of an event tree.
type Snapshot = directory.Snapshot

// Bus is an in-process publish/subscribe bus with two directory trees: one
// for user events and one for protected internal events.
//
// All methods are safe for concurrent use. Listeners run synchronously in
// the publisher's goroutine, outside the bus lock, so they may call back
// into the bus.
type Bus struct {
	mu       sync.RWMutex
	user     *directory.Directory
	internal *directory.Directory
	dirs     [2]int // reachable directories per tree, roots included

	parser     path.Parser
	keys       *keygen.Generator
	dispatcher *dispatch.SyncDispatcher

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.keys == nil {
		config.keys = keygen.New()
	}

	b := &Bus{
		user:       directory.NewRoot(path.TreeUser.String()),
		internal:   directory.NewRoot(path.TreeInternal.String()),
		dirs:       [2]int{1, 1},
		parser:     path.NewParser(config.internalMarker),
		keys:       config.keys,
		dispatcher: dispatch.NewSyncDispatcher(),
		logger:     config.logger,
		metrics:    config.metrics,
	}

	b.RegisterInternal(EventNewListener, EventRmEvent, EventRmListener, EventTryError)
	if len(config.internalEvents) > 0 {
		b.RegisterInternal(config.internalEvents...)
	}
	b.metrics.SetDirectories(path.TreeUser.String(), 1)

	return b
}

// Internal returns the full name of an internal event, e.g.
// Internal(EventTryError) -> "_internal/tryError".
func (b *Bus) Internal(name string) string {
	return b.parser.Internal(name)
}

// Fire invokes every listener subscribed to name. A name ending in "/*"
// also invokes the listeners of every directory below it.
//
// It reports whether any listener was invoked. A name that does not
// resolve is not an error. The first listener error stops the dispatch and
// is returned; listener panics are not recovered.
func (b *Bus) Fire(name string, args ...any) (bool, error) {
	return b.fire(name, "", args)
}

// FireKey invokes only the listener stored under key at name. A trailing
// "/*" is ignored: keyed fires never descend into child directories.
// An empty key behaves like Fire.
func (b *Bus) FireKey(name, key string, args ...any) (bool, error) {
	return b.fire(name, key, args)
}

func (b *Bus) fire(name, key string, args []any) (bool, error) {
	n := b.parser.Parse(name)

	b.mu.RLock()
	var entries []dispatch.Entry
	if dir, ok := b.root(n.Tree).Resolve(n.Segments); ok {
		entries = dispatch.Collect(dir, key, n.Recursive)
	}
	b.mu.RUnlock()

	start := time.Now()
	invoked, err := b.dispatcher.Invoke(entries, args)
	b.metrics.ObserveFire(n.Tree.String(), invoked, time.Since(start).Seconds(), err)

	return invoked > 0, err
}

// fireInternal publishes a built-in lifecycle event.
func (b *Bus) fireInternal(event string, args ...any) error {
	_, err := b.fire(b.parser.Internal(event), "", args)
	return err
}

// UserEvents returns a snapshot of the user event tree.
func (b *Bus) UserEvents() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.user.Snapshot()
}

// InternalEvents returns a snapshot of the internal event tree.
func (b *Bus) InternalEvents() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.internal.Snapshot()
}

// Lookup returns a snapshot of the directory addressed by name.
func (b *Bus) Lookup(name string) (Snapshot, bool) {
	n := b.parser.Parse(name)

	b.mu.RLock()
	defer b.mu.RUnlock()

	dir, ok := b.root(n.Tree).Resolve(n.Segments)
	if !ok {
		return Snapshot{}, false
	}
	return dir.Snapshot(), true
}

// Stats contains bus statistics.
type Stats struct {
	// UserDirectories is the number of reachable user directories, root included.
	UserDirectories int

	// InternalDirectories is the number of reachable internal directories, root included.
	InternalDirectories int

	// Dispatch holds the dispatcher counters.
	Dispatch dispatch.SyncDispatcherStats
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Stats{
		UserDirectories:     b.dirs[path.TreeUser],
		InternalDirectories: b.dirs[path.TreeInternal],
		Dispatch:            b.dispatcher.Stats(),
	}
}

// root returns the root directory of tree.
func (b *Bus) root(tree path.Tree) *directory.Directory {
	if tree == path.TreeInternal {
		return b.internal
	}
	return b.user
}

// canonical returns the name used in lifecycle payloads: the marker for
// internal names, then the normalised path.
func (b *Bus) canonical(n path.Name) string {
	if n.Tree == path.TreeInternal {
		return b.parser.Internal(n.Path())
	}
	return n.Path()
}

// addDirectories adjusts the directory count of tree. Caller holds b.mu.
func (b *Bus) addDirectories(tree path.Tree, delta int) {
	if delta == 0 {
		return
	}
	b.dirs[tree] += delta
	b.metrics.SetDirectories(tree.String(), b.dirs[tree])
}
