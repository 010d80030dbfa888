package event

import (
	"log/slog"

	"github.com/dshills/shotgun/internal/event/keygen"
	"github.com/dshills/shotgun/internal/event/metrics"
	"github.com/dshills/shotgun/internal/event/path"
)

// BusOption configures an event Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// internalMarker prefixes names that address the internal tree.
	internalMarker string

	// keys generates keys for anonymous subscriptions.
	keys *keygen.Generator

	// internalEvents are registered in addition to the built-in events.
	internalEvents []string

	// logger receives debug-level lifecycle tracing.
	logger *slog.Logger

	// metrics records bus activity; nil disables collection.
	metrics *metrics.Metrics
}

// defaultBusConfig returns sensible default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		internalMarker: path.DefaultInternalMarker,
		logger:         slog.New(slog.DiscardHandler),
	}
}

// WithInternalMarker sets the prefix that routes a name to the internal
// tree, e.g. "system:".
func WithInternalMarker(marker string) BusOption {
	return func(c *busConfig) {
		if marker != "" {
			c.internalMarker = marker
		}
	}
}

// WithKeyGenerator sets the generator used for anonymous subscriptions.
func WithKeyGenerator(g *keygen.Generator) BusOption {
	return func(c *busConfig) {
		if g != nil {
			c.keys = g
		}
	}
}

// WithInternalEvents registers additional internal paths at construction.
func WithInternalEvents(paths ...string) BusOption {
	return func(c *busConfig) {
		c.internalEvents = append(c.internalEvents, paths...)
	}
}

// WithLogger sets the logger. The bus only logs at debug level.
func WithLogger(l *slog.Logger) BusOption {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection.
func WithMetrics(m *metrics.Metrics) BusOption {
	return func(c *busConfig) {
		c.metrics = m
	}
}
