package directory

import (
	"strings"

	"github.com/tidwall/sjson"
)

// Snapshot is a read-only copy of a directory subtree.
type Snapshot struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Listeners []string   `json:"listeners"`
	Children  []Snapshot `json:"children,omitempty"`
}

// Snapshot copies the subtree rooted at d. Listener functions are not
// copied, only their keys. Children are ordered by name.
func (d *Directory) Snapshot() Snapshot {
	s := Snapshot{
		ID:        d.id,
		Name:      d.name,
		Listeners: d.Keys(),
	}
	for _, c := range d.Children() {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}

// Find returns the snapshot addressed by segments below s.
func (s Snapshot) Find(segments []string) (Snapshot, bool) {
	node := s
	for _, seg := range segments {
		found := false
		for _, c := range node.Children {
			if c.Name == seg {
				node = c
				found = true
				break
			}
		}
		if !found {
			return Snapshot{}, false
		}
	}
	return node, true
}

// Walk calls fn for s and every descendant, depth-first, with the
// "/"-joined path of each node relative to s.
func (s Snapshot) Walk(fn func(path string, node Snapshot)) {
	s.walk("", fn)
}

func (s Snapshot) walk(prefix string, fn func(string, Snapshot)) {
	fn(prefix, s)
	for _, c := range s.Children {
		p := c.Name
		if prefix != "" {
			p = prefix + "/" + c.Name
		}
		c.walk(p, fn)
	}
}

// ListenerCount returns the number of listeners in the subtree.
func (s Snapshot) ListenerCount() int {
	n := len(s.Listeners)
	for _, c := range s.Children {
		n += c.ListenerCount()
	}
	return n
}

// JSON renders the snapshot as a nested JSON object keyed by segment name:
//
//	{"id":"...","listeners":["k1"],"children":{"a":{"id":"...","listeners":[],...}}}
func (s Snapshot) JSON() ([]byte, error) {
	out := []byte(`{}`)

	var err error
	if out, err = sjson.SetBytes(out, "id", s.ID); err != nil {
		return nil, err
	}
	listeners := s.Listeners
	if listeners == nil {
		listeners = []string{}
	}
	if out, err = sjson.SetBytes(out, "listeners", listeners); err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, "children", []byte(`{}`)); err != nil {
		return nil, err
	}

	for _, c := range s.Children {
		child, err := c.JSON()
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, "children."+EscapeKey(c.Name), child)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EscapeKey escapes the gjson/sjson path metacharacters in a segment name
// so it can be used as a single path component.
func EscapeKey(name string) string {
	if !strings.ContainsAny(name, `.*?|#@!=<>%\`) {
		return name
	}
	var sb strings.Builder
	for _, r := range name {
		switch r {
		case '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
