// Package directory implements the hierarchical event namespace.
//
// A tree is built from Directory nodes, one per path segment. Every node
// keeps two independent maps: child directories by segment name, and
// listeners by key. Listeners are scoped to their exact directory; they are
// not inherited by children.
//
//	root
//	├── user            listeners: {k1}
//	│   ├── created     listeners: {k2, k3}
//	│   └── deleted     listeners: {}
//	└── ui
//	    └── clicked     listeners: {k4}
//
// Resolve never creates nodes; Ensure creates the missing ones. Detach
// drops a node's listeners and unlinks it from its parent, which makes the
// whole subtree unreachable.
//
// Snapshot produces a read-only copy of a subtree, suitable for
// introspection and JSON export.
package directory
