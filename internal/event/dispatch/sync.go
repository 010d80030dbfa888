package dispatch

import (
	"sync/atomic"
	"time"
)

// SyncDispatcher invokes listeners synchronously in the caller's goroutine.
// It does not recover panics: a failing listener aborts the dispatch and
// the failure reaches the publisher.
type SyncDispatcher struct {
	// Stats
	dispatched  atomic.Uint64
	invoked     atomic.Uint64
	failed      atomic.Uint64
	missed      atomic.Uint64
	totalTimeNs atomic.Int64
}

// NewSyncDispatcher creates a new synchronous dispatcher.
func NewSyncDispatcher() *SyncDispatcher {
	return &SyncDispatcher{}
}

// Invoke calls every entry's listener with args, in order.
// It stops at the first listener that returns an error and returns that
// error wrapped in a *ListenerError. invoked counts the listeners that were
// called, the failing one included.
func (d *SyncDispatcher) Invoke(entries []Entry, args []any) (invoked int, err error) {
	d.dispatched.Add(1)
	if len(entries) == 0 {
		d.missed.Add(1)
		return 0, nil
	}

	start := time.Now()
	defer func() {
		d.totalTimeNs.Add(time.Since(start).Nanoseconds())
		d.invoked.Add(uint64(invoked))
	}()

	for _, e := range entries {
		invoked++
		if lerr := e.Fn(args...); lerr != nil {
			d.failed.Add(1)
			return invoked, &ListenerError{Path: e.Path, Key: e.Key, Err: lerr}
		}
	}
	return invoked, nil
}

// Stats returns dispatch statistics.
// Note: Stats are read without a mutex, so values may be slightly inconsistent
// if stats are being updated concurrently.
func (d *SyncDispatcher) Stats() SyncDispatcherStats {
	dispatched := d.dispatched.Load()
	totalNs := d.totalTimeNs.Load()

	var avgNs int64
	if dispatched > 0 {
		avgNs = totalNs / int64(dispatched)
	}

	return SyncDispatcherStats{
		Dispatched:    dispatched,
		Invoked:       d.invoked.Load(),
		Failed:        d.failed.Load(),
		Missed:        d.missed.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// SyncDispatcherStats contains statistics for a sync dispatcher.
type SyncDispatcherStats struct {
	// Dispatched is the total number of Invoke calls.
	Dispatched uint64

	// Invoked is the number of listener calls.
	Invoked uint64

	// Failed is the number of listeners that returned errors.
	Failed uint64

	// Missed is the number of dispatches that selected no listener.
	Missed uint64

	// TotalDuration is the cumulative time spent in listeners.
	TotalDuration time.Duration

	// AvgDuration is the average time per dispatch.
	AvgDuration time.Duration
}
