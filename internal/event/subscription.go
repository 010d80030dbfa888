package event

import (
	"fmt"

	"github.com/dshills/shotgun/internal/event/path"
)

// Listen subscribes fn to name under a generated key and returns the key.
//
// User directories along name are created as needed. Internal names must
// have been declared with RegisterInternal first; otherwise Listen fails
// with a *ConfigError wrapping ErrInternalNotRegistered. A trailing "/*" is
// ignored.
//
// After fn is stored, the internal newListener event fires. If a
// newListener listener fails, the subscription stays in place and its
// error is returned alongside the key.
func (b *Bus) Listen(name string, fn Listener) (string, error) {
	return b.listen(name, "", fn)
}

// ListenKey subscribes fn to name under key, replacing any listener already
// stored under that key. An empty key behaves like Listen.
func (b *Bus) ListenKey(name, key string, fn Listener) (string, error) {
	return b.listen(name, key, fn)
}

func (b *Bus) listen(name, key string, fn Listener) (string, error) {
	if fn == nil {
		return "", &ConfigError{Name: name, Err: ErrNilListener}
	}

	n := b.parser.Parse(name)
	if n.IsRoot() || !n.IsValid() {
		return "", &ConfigError{Name: name, Err: ErrInvalidPath}
	}

	b.mu.Lock()
	root := b.root(n.Tree)
	dir, ok := root.Resolve(n.Segments)
	if !ok {
		if n.Tree == path.TreeInternal {
			b.mu.Unlock()
			return "", &ConfigError{Name: name, Err: ErrInternalNotRegistered}
		}
		var created int
		dir, created = root.Ensure(n.Segments)
		b.addDirectories(n.Tree, created)
	}

	if key == "" {
		key = b.keys.Next()
	}
	dir.Set(key, fn)
	b.mu.Unlock()

	event := b.canonical(n)
	b.logger.Debug("listener added", "event", event, "key", key, "tree", n.Tree.String())
	b.metrics.ObserveListen(n.Tree.String())

	if err := b.fireInternal(EventNewListener, event, key, fn); err != nil {
		return key, fmt.Errorf("%s listener: %w", EventNewListener, err)
	}
	return key, nil
}

// RegisterInternal declares internal event paths, creating their
// directories under the internal tree without listeners. Paths may be given
// with or without the internal marker. Registering an existing path is a
// no-op. It returns false if any path was rejected as invalid; the valid
// ones are still registered.
func (b *Bus) RegisterInternal(paths ...string) bool {
	ok := true

	b.mu.Lock()
	for _, p := range paths {
		n := b.parser.Parse(b.parser.Internal(b.trimMarker(p)))
		if n.IsRoot() || n.Recursive || !n.IsValid() {
			ok = false
			continue
		}
		_, created := b.internal.Ensure(n.Segments)
		b.addDirectories(path.TreeInternal, created)
		if created > 0 {
			b.logger.Debug("internal event registered", "event", b.canonical(n))
		}
	}
	b.mu.Unlock()

	return ok
}

// trimMarker strips the internal marker from p when present.
func (b *Bus) trimMarker(p string) string {
	if b.parser.IsInternal(p) {
		return p[len(b.parser.Marker()):]
	}
	return p
}

// Remove removes the directory addressed by name: its listeners are
// discarded, it is unlinked from its parent, and every directory below it
// becomes unreachable. The internal rmEvent event fires afterwards.
//
// It reports whether a directory existed. The tree roots cannot be removed.
func (b *Bus) Remove(name string) (bool, error) {
	n := b.parser.Parse(name)
	if n.IsRoot() {
		return false, nil
	}

	b.mu.Lock()
	dir, ok := b.root(n.Tree).Resolve(n.Segments)
	if !ok {
		b.mu.Unlock()
		return false, nil
	}
	removed := dir.Count()
	dir.Detach()
	b.addDirectories(n.Tree, -removed)
	b.mu.Unlock()

	event := b.canonical(n)
	b.logger.Debug("event removed", "event", event, "directories", removed, "tree", n.Tree.String())
	b.metrics.ObserveRemoveEvent(n.Tree.String())

	if err := b.fireInternal(EventRmEvent, event); err != nil {
		return true, fmt.Errorf("%s listener: %w", EventRmEvent, err)
	}
	return true, nil
}

// RemoveKey removes the listener stored under key at name and fires the
// internal rmListener event. It reports whether a listener was removed.
// When name does not resolve nothing fires. An empty key behaves like
// Remove.
func (b *Bus) RemoveKey(name, key string) (bool, error) {
	if key == "" {
		return b.Remove(name)
	}

	n := b.parser.Parse(name)

	b.mu.Lock()
	dir, ok := b.root(n.Tree).Resolve(n.Segments)
	if !ok {
		b.mu.Unlock()
		return false, nil
	}
	removed := dir.Delete(key)
	b.mu.Unlock()

	event := b.canonical(n)
	if removed {
		b.logger.Debug("listener removed", "event", event, "key", key, "tree", n.Tree.String())
		b.metrics.ObserveRemoveListener(n.Tree.String())
	}

	if err := b.fireInternal(EventRmListener, event, key); err != nil {
		return removed, fmt.Errorf("%s listener: %w", EventRmListener, err)
	}
	return removed, nil
}
