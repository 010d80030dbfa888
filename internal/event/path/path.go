package path

import "strings"

// Path syntax constants.
const (
	// Separator is the character used to separate path segments.
	Separator = "/"

	// Wildcard, as the last segment, requests recursive dispatch over the
	// addressed directory and its whole subtree.
	Wildcard = "*"

	// DefaultInternalMarker routes a name to the internal event tree.
	DefaultInternalMarker = "_internal/"
)

// Tree identifies which root tree a name is resolved against.
type Tree int

const (
	// TreeUser is the tree of application-defined events.
	TreeUser Tree = iota
	// TreeInternal is the tree of pre-declared system events.
	TreeInternal
)

// String returns the tree name.
func (t Tree) String() string {
	switch t {
	case TreeUser:
		return "user"
	case TreeInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Name is a parsed event name.
type Name struct {
	// Raw is the name exactly as supplied by the caller.
	Raw string

	// Tree is the root tree the name resolves against.
	Tree Tree

	// Segments are the directory names from the root, marker and
	// wildcard removed.
	Segments []string

	// Recursive is set when the name ended in a wildcard.
	Recursive bool
}

// Parser splits event names using a configurable internal marker.
type Parser struct {
	marker string
}

// NewParser creates a parser for the given internal marker.
// An empty marker falls back to DefaultInternalMarker.
func NewParser(marker string) Parser {
	if marker == "" {
		marker = DefaultInternalMarker
	}
	return Parser{marker: marker}
}

// Marker returns the internal-namespace marker.
func (p Parser) Marker() string {
	if p.marker == "" {
		return DefaultInternalMarker
	}
	return p.marker
}

// Internal returns the full event name for an internal path.
//
// Example: Internal("tryError") -> "_internal/tryError"
func (p Parser) Internal(name string) string {
	return p.Marker() + Trim(name)
}

// IsInternal reports whether raw addresses the internal tree.
func (p Parser) IsInternal(raw string) bool {
	return strings.HasPrefix(raw, p.Marker())
}

// Parse parses a raw event name.
//
// Examples (default marker):
//
//	"a/b"              -> user,     [a b],       recursive=false
//	"/a/b/"            -> user,     [a b],       recursive=false
//	"a/*"              -> user,     [a],         recursive=true
//	"_internal/rmEvent" -> internal, [rmEvent],   recursive=false
func (p Parser) Parse(raw string) Name {
	n := Name{Raw: raw, Tree: TreeUser}

	s := raw
	if p.IsInternal(s) {
		n.Tree = TreeInternal
		s = s[len(p.Marker()):]
	}

	s = Trim(s)
	if s == Wildcard || strings.HasSuffix(s, Separator+Wildcard) {
		n.Recursive = true
		s = Trim(strings.TrimSuffix(s, Wildcard))
	}

	n.Segments = Split(s)
	return n
}

// Path returns the normalised path of the name, without marker or wildcard.
func (n Name) Path() string {
	return Join(n.Segments...)
}

// IsRoot returns true if the name addresses the root of its tree.
func (n Name) IsRoot() bool {
	return len(n.Segments) == 0
}

// IsValid returns true if no segment is empty and no segment is a
// wildcard. Consecutive separators produce empty segments.
func (n Name) IsValid() bool {
	for _, seg := range n.Segments {
		if seg == "" || seg == Wildcard {
			return false
		}
	}
	return true
}

// Trim removes leading and trailing separators.
func Trim(s string) string {
	return strings.Trim(s, Separator)
}

// Split splits a path into segments. An empty path has no segments.
func Split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}

// Join joins segments into a path.
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}
