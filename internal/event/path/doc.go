// Package path parses the hierarchical event names used by the bus.
//
// # Name Format
//
// Names are "/"-separated directory paths:
//
//	user/created
//	ui/button/clicked
//
// Leading and trailing separators are ignored, so "/user/created/" and
// "user/created" address the same directory.
//
// # Wildcard
//
// A trailing "*" segment requests recursive dispatch: the addressed
// directory and every directory below it.
//
//	ui/*     fires ui, ui/button, ui/button/clicked, ...
//	*        fires the whole tree
//
// The wildcard is never itself a segment.
//
// # Internal Names
//
// Names beginning with the internal marker ("_internal/" by default) are
// resolved against the protected internal tree with the marker stripped:
//
//	_internal/newListener
//	_internal/tryError
package path
