// Package metrics exposes Prometheus collectors describing bus activity.
//
// A nil *Metrics is valid and records nothing, so the bus can call the
// Observe methods unconditionally.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is the metric namespace used when none is given.
const DefaultNamespace = "shotgun"

// Fire results.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Metrics holds the bus collectors.
type Metrics struct {
	Fires            *prometheus.CounterVec
	ListenersInvoked *prometheus.CounterVec
	ListenersAdded   *prometheus.CounterVec
	ListenersRemoved *prometheus.CounterVec
	EventsRemoved    *prometheus.CounterVec
	Directories      *prometheus.GaugeVec
	AttemptFailures  *prometheus.CounterVec
	ListenerDuration *prometheus.HistogramVec
}

// New creates the bus collectors under namespace.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Metrics{
		Fires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "fires_total",
				Help:      "Total number of fire calls by tree and result (hit, miss, error)",
			},
			[]string{"tree", "result"},
		),

		ListenersInvoked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "listeners_invoked_total",
				Help:      "Total number of listener invocations",
			},
			[]string{"tree"},
		),

		ListenersAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "listeners_added_total",
				Help:      "Total number of listeners subscribed",
			},
			[]string{"tree"},
		),

		ListenersRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "listeners_removed_total",
				Help:      "Total number of listeners removed by key",
			},
			[]string{"tree"},
		),

		EventsRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "events_removed_total",
				Help:      "Total number of directories removed",
			},
			[]string{"tree"},
		),

		Directories: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "directories",
				Help:      "Number of reachable directories, roots included",
			},
			[]string{"tree"},
		),

		AttemptFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "attempt",
				Name:      "failures_total",
				Help:      "Total number of attempted functions that failed, by kind (error, panic)",
			},
			[]string{"kind"},
		),

		ListenerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "fire_duration_seconds",
				Help:      "Time spent invoking listeners for one fire call",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"tree"},
		),
	}
}

// Collectors returns every collector, for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Fires,
		m.ListenersInvoked,
		m.ListenersAdded,
		m.ListenersRemoved,
		m.EventsRemoved,
		m.Directories,
		m.AttemptFailures,
		m.ListenerDuration,
	}
}

// Register registers every collector with reg. Collectors that are already
// registered are accepted.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveFire records one fire call.
func (m *Metrics) ObserveFire(tree string, invoked int, seconds float64, err error) {
	if m == nil {
		return
	}
	result := ResultHit
	switch {
	case err != nil:
		result = ResultError
	case invoked == 0:
		result = ResultMiss
	}
	m.Fires.WithLabelValues(tree, result).Inc()
	if invoked > 0 {
		m.ListenersInvoked.WithLabelValues(tree).Add(float64(invoked))
		m.ListenerDuration.WithLabelValues(tree).Observe(seconds)
	}
}

// ObserveListen records a new subscription.
func (m *Metrics) ObserveListen(tree string) {
	if m == nil {
		return
	}
	m.ListenersAdded.WithLabelValues(tree).Inc()
}

// ObserveRemoveListener records a keyed removal.
func (m *Metrics) ObserveRemoveListener(tree string) {
	if m == nil {
		return
	}
	m.ListenersRemoved.WithLabelValues(tree).Inc()
}

// ObserveRemoveEvent records a directory removal.
func (m *Metrics) ObserveRemoveEvent(tree string) {
	if m == nil {
		return
	}
	m.EventsRemoved.WithLabelValues(tree).Inc()
}

// SetDirectories records the number of reachable directories in a tree.
func (m *Metrics) SetDirectories(tree string, n int) {
	if m == nil {
		return
	}
	m.Directories.WithLabelValues(tree).Set(float64(n))
}

// ObserveAttemptFailure records a failed attempt; panicked selects the kind.
func (m *Metrics) ObserveAttemptFailure(panicked bool) {
	if m == nil {
		return
	}
	kind := "error"
	if panicked {
		kind = "panic"
	}
	m.AttemptFailures.WithLabelValues(kind).Inc()
}
