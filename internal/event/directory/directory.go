package directory

import (
	"sort"

	"github.com/google/uuid"
)

// Listener is a function subscribed to a directory.
// Returning a non-nil error aborts the dispatch that invoked it.
type Listener func(args ...any) error

// Directory is one node of an event tree.
//
// Child directories and listeners live in separate maps, so a listener key
// may equal a child segment name. Directory is not safe for concurrent use;
// the owning bus serialises access.
type Directory struct {
	id     string
	name   string
	parent *Directory // lookup only; ownership flows from parent.children

	children  map[string]*Directory
	listeners map[string]Listener

	removed bool
}

// NewRoot creates the root directory of a tree.
func NewRoot(name string) *Directory {
	return newDirectory(name, nil)
}

func newDirectory(name string, parent *Directory) *Directory {
	return &Directory{
		id:        uuid.NewString(),
		name:      name,
		parent:    parent,
		children:  make(map[string]*Directory),
		listeners: make(map[string]Listener),
	}
}

// ID returns the identifier of the directory's listener store.
// A directory that is removed and later recreated gets a new ID.
func (d *Directory) ID() string {
	return d.id
}

// Name returns the path segment of the directory.
func (d *Directory) Name() string {
	return d.name
}

// Parent returns the owning directory, or nil for a root or a removed directory.
func (d *Directory) Parent() *Directory {
	return d.parent
}

// IsRoot returns true if the directory is the root of its tree.
func (d *Directory) IsRoot() bool {
	return d.parent == nil && !d.removed
}

// Child returns the child directory with the given name.
func (d *Directory) Child(name string) (*Directory, bool) {
	c, ok := d.children[name]
	return c, ok
}

// Children returns the child directories sorted by name.
func (d *Directory) Children() []*Directory {
	names := make([]string, 0, len(d.children))
	for name := range d.children {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Directory, len(names))
	for i, name := range names {
		out[i] = d.children[name]
	}
	return out
}

// Resolve walks segments from d and returns the addressed directory.
// It returns false as soon as a segment is missing and never creates nodes.
// An empty segment list resolves to d itself.
func (d *Directory) Resolve(segments []string) (*Directory, bool) {
	node := d
	for _, seg := range segments {
		child, ok := node.children[seg]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Ensure walks segments from d, creating missing directories, and returns
// the addressed directory. The second result reports how many directories
// were created.
func (d *Directory) Ensure(segments []string) (*Directory, int) {
	node := d
	created := 0
	for _, seg := range segments {
		child, ok := node.children[seg]
		if !ok {
			child = newDirectory(seg, node)
			node.children[seg] = child
			created++
		}
		node = child
	}
	return node, created
}

// Detach discards the directory's listener store and unlinks it from its
// parent. Descendants are not visited; they become unreachable with it.
// Returns false for a root or an already detached directory.
func (d *Directory) Detach() bool {
	if d.parent == nil || d.removed {
		return false
	}
	if d.parent.children[d.name] == d {
		delete(d.parent.children, d.name)
	}
	d.listeners = make(map[string]Listener)
	d.parent = nil
	d.removed = true
	return true
}

// Set stores fn under key, replacing any listener with the same key.
// Returns true if a listener was replaced.
func (d *Directory) Set(key string, fn Listener) bool {
	_, replaced := d.listeners[key]
	d.listeners[key] = fn
	return replaced
}

// Listener returns the listener stored under key.
func (d *Directory) Listener(key string) (Listener, bool) {
	fn, ok := d.listeners[key]
	return fn, ok
}

// Delete removes the listener stored under key.
// Returns true if a listener was present.
func (d *Directory) Delete(key string) bool {
	if _, ok := d.listeners[key]; !ok {
		return false
	}
	delete(d.listeners, key)
	return true
}

// Keys returns the listener keys sorted.
func (d *Directory) Keys() []string {
	keys := make([]string, 0, len(d.listeners))
	for k := range d.listeners {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of listeners stored in the directory.
func (d *Directory) Len() int {
	return len(d.listeners)
}

// Path returns the segments from the root to d.
// Returns nil for a root or a removed directory.
func (d *Directory) Path() []string {
	var segs []string
	for node := d; node.parent != nil; node = node.parent {
		segs = append(segs, node.name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return segs
}

// Count returns the number of directories in the subtree rooted at d,
// d included.
func (d *Directory) Count() int {
	n := 1
	for _, c := range d.children {
		n += c.Count()
	}
	return n
}
