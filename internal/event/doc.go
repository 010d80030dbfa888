// Package event provides Shotgun, an in-process publish/subscribe bus with
// hierarchical event directories.
//
// # Architecture
//
//	                    ┌──────────────────────────────────────────┐
//	                    │                   Bus                     │
//	                    │  - Listen / Remove (subscription manager) │
//	                    │  - Fire (resolve + dispatch)              │
//	                    │  - Attempt (fault rerouting)              │
//	                    └──────────────────────────────────────────┘
//	                                      │
//	          ┌───────────────────────────┼───────────────────────────┐
//	          ▼                           ▼                           ▼
//	┌─────────────────┐         ┌─────────────────┐         ┌─────────────────┐
//	│   directory     │         │    dispatch     │         │     keygen      │
//	│  - user tree    │         │  - Collect      │         │  - anonymous    │
//	│  - internal tree│         │  - Invoke       │         │    keys         │
//	└─────────────────┘         │  - Recover      │         └─────────────────┘
//	                            └─────────────────┘
//
// # Event Names
//
// Events are "/"-separated directory paths:
//
//	user/created
//	ui/button/clicked
//
// Listeners are stored per directory under a key. Firing a directory
// invokes its own listeners only; a trailing "/*" also fires every
// directory below it:
//
//	bus.Fire("ui/*")                   // ui, ui/button, ui/button/clicked, ...
//	bus.FireKey("ui/button", "k1")     // only listener k1 of ui/button
//
// A keyed fire never descends into children, even with "/*".
//
// # Internal Events
//
// Names starting with the internal marker ("_internal/" by default) live in
// a separate tree. Unlike user directories, internal directories are never
// created by Listen; they must be declared with RegisterInternal. The bus
// declares four on construction:
//
//	_internal/newListener  (path, key, fn)   after every Listen
//	_internal/rmListener   (path, key)       after every RemoveKey
//	_internal/rmEvent      (path)            after every Remove
//	_internal/tryError     (err, fn)         after every failed Attempt
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	key, err := bus.Listen("user/created", func(args ...any) error {
//	    fmt.Println("created", args[0])
//	    return nil
//	})
//
//	invoked, err := bus.Fire("user/created", "ada")
//
//	bus.RemoveKey("user/created", key)
//
// # Attempt
//
// Attempt converts a failing function into events instead of an error
// return:
//
//	bus.Listen(bus.Internal(event.EventTryError), func(args ...any) error {
//	    log.Printf("failed: %v", args[0])
//	    return nil
//	})
//
//	bus.Attempt(func() error {
//	    return doWork()
//	}, event.WithErrorPath("work/failed"))
//
// # Thread Safety
//
// The Bus is safe for concurrent use. Listeners run in the publisher's
// goroutine after the bus lock is released, so they may Listen, Fire or
// Remove. A listener removed while a dispatch is in progress is still
// invoked by that dispatch if it had already been selected.
//
// # Subpackages
//
//   - path: name parsing and internal-marker routing
//   - directory: the directory tree and snapshots
//   - dispatch: listener selection, invocation and panic recovery
//   - keygen: anonymous subscription keys
//   - metrics: Prometheus collectors
package event
