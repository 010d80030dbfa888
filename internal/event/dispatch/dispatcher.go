package dispatch

import (
	"time"

	"github.com/dshills/shotgun/internal/event/directory"
	"github.com/dshills/shotgun/internal/event/path"
)

// Entry is one listener selected for invocation.
type Entry struct {
	// Path is the "/"-joined path of the directory holding the listener.
	Path string

	// Key is the listener's key within that directory.
	Key string

	// Fn is the listener.
	Fn directory.Listener
}

// Result represents the outcome of running a function under Recover.
type Result struct {
	// Success is true if the function completed without error or panic.
	Success bool

	// Error is the error returned by the function, if any.
	Error error

	// Panicked is true if the function panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the function took to execute.
	Duration time.Duration
}

// IsSuccess returns true if the result indicates successful execution.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Error == nil
}

// IsError returns true if the result indicates an error (not panic).
func (r Result) IsError() bool {
	return r.Error != nil && !r.Panicked
}

// IsPanic returns true if the result indicates a panic.
func (r Result) IsPanic() bool {
	return r.Panicked
}

// Collect selects the listeners a dispatch on dir would invoke.
//
// With a key, only dir's listener under that key is selected and recursive
// is ignored. Without a key, all of dir's listeners are selected, followed,
// when recursive is set, by those of every descendant, depth-first with children in name order. A nil
// dir selects nothing.
func Collect(dir *directory.Directory, key string, recursive bool) []Entry {
	if dir == nil {
		return nil
	}

	if key != "" {
		fn, ok := dir.Listener(key)
		if !ok {
			return nil
		}
		return []Entry{{Path: path.Join(dir.Path()...), Key: key, Fn: fn}}
	}

	var entries []Entry
	collectAll(dir, recursive, &entries)
	return entries
}

func collectAll(dir *directory.Directory, recursive bool, entries *[]Entry) {
	p := path.Join(dir.Path()...)
	for _, k := range dir.Keys() {
		fn, _ := dir.Listener(k)
		*entries = append(*entries, Entry{Path: p, Key: k, Fn: fn})
	}

	if !recursive {
		return
	}
	for _, child := range dir.Children() {
		collectAll(child, true, entries)
	}
}
