// Package dispatch selects and invokes the listeners of a directory tree.
//
// # Selection
//
// Collect turns a resolved directory, an optional key and a recursive flag
// into an ordered list of entries:
//
//   - With a key: only the listener stored under that key. The recursive
//     flag is ignored; a keyed dispatch never descends into children.
//   - Without a key: every listener of the directory, then, when
//     recursive, every listener of every descendant, depth-first.
//
// # Invocation
//
// SyncDispatcher.Invoke calls the selected listeners in the caller's
// goroutine. A listener error stops the dispatch and is returned wrapped in
// a *ListenerError. Panics are not recovered.
//
// Splitting selection from invocation lets the bus collect under its lock
// and invoke after releasing it, so listeners may call back into the bus.
//
//	entries := dispatch.Collect(dir, "", true)
//	mu.RUnlock()
//	n, err := dispatcher.Invoke(entries, args)
//
// # Recovery
//
// Recover runs a function and reports returned errors and panics in a
// Result. The bus uses it to isolate attempted functions.
package dispatch
