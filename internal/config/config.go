package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/shotgun/internal/config/loader"
	"github.com/dshills/shotgun/internal/event"
	"github.com/dshills/shotgun/internal/event/keygen"
	"github.com/dshills/shotgun/internal/event/metrics"
	"github.com/dshills/shotgun/internal/event/path"
)

// Config is the complete Shotgun configuration.
type Config struct {
	Bus     BusConfig     `toml:"bus"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
	Script  ScriptConfig  `toml:"script"`
}

// BusConfig configures an event bus.
type BusConfig struct {
	// InternalPrefix routes names to the internal tree.
	InternalPrefix string `toml:"internal_prefix"`

	// KeyPrefix starts every generated key.
	KeyPrefix string `toml:"key_prefix"`

	// KeySuffixLength is the number of random characters in a generated key.
	KeySuffixLength int `toml:"key_suffix_length"`

	// InternalEvents are registered at construction, in addition to the
	// built-in lifecycle events.
	InternalEvents []string `toml:"internal_events"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
}

// MetricsConfig configures Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Namespace string `toml:"namespace"`
}

// ScriptConfig configures the Lua runtime.
type ScriptConfig struct {
	// Timeout bounds a single script run, as a Go duration string.
	// "0" or "" disables it.
	Timeout string `toml:"timeout"`
}

// ScriptTimeout returns the parsed script timeout.
func (c Config) ScriptTimeout() time.Duration {
	d, err := parseTimeout(c.Script.Timeout)
	if err != nil {
		return 0
	}
	return d
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Bus: BusConfig{
			InternalPrefix:  path.DefaultInternalMarker,
			KeyPrefix:       keygen.DefaultPrefix,
			KeySuffixLength: keygen.DefaultSuffixLength,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: metrics.DefaultNamespace,
		},
		Script: ScriptConfig{
			Timeout: "5s",
		},
	}
}

// Load builds a configuration from defaults, the TOML file at path (if
// any) and SHOTGUN_* environment variables, in increasing precedence.
func Load(path string) (Config, error) {
	return LoadWith(loader.NewTOMLLoader(path), loader.NewEnvLoader())
}

// LoadWith builds a configuration from defaults overlaid with each
// loader's output in order.
func LoadWith(loaders ...loader.Loader) (Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return Config{}, err
	}

	for _, l := range loaders {
		m, err := l.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a TOML document over the defaults. Unknown keys are errors.
func Parse(r io.Reader) (Config, error) {
	return LoadWith(readerLoader{src: loader.NewTOMLLoader(""), r: r})
}

// readerLoader adapts a ReaderLoader bound to r to the Loader interface.
type readerLoader struct {
	src loader.ReaderLoader
	r   io.Reader
}

func (l readerLoader) Load() (map[string]any, error) {
	return l.src.LoadFromReader(l.r)
}

func toMap(cfg Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	return m, nil
}

func fromMap(m map[string]any) (Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("encoding config: %w", err)
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &ValidationError{Field: "config", Message: err.Error(), Err: ErrInvalidConfig}
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.Bus.InternalPrefix == "" {
		return &ValidationError{Field: "bus.internal_prefix", Message: "must not be empty", Err: ErrInvalidConfig}
	}
	if c.Bus.KeySuffixLength < 0 {
		return &ValidationError{Field: "bus.key_suffix_length", Message: "must not be negative", Err: ErrInvalidConfig}
	}
	if c.Bus.KeyPrefix == "" && c.Bus.KeySuffixLength == 0 {
		return &ValidationError{Field: "bus.key_prefix", Message: "key_prefix or key_suffix_length is required", Err: ErrInvalidConfig}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Message: err.Error(), Err: ErrInvalidConfig}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format), Err: ErrInvalidConfig}
	}
	if _, err := parseTimeout(c.Script.Timeout); err != nil {
		return &ValidationError{Field: "script.timeout", Message: err.Error(), Err: ErrInvalidConfig}
	}
	return nil
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// NewLogger builds a slog.Logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewMetrics returns the configured collectors, or nil when disabled.
func (c Config) NewMetrics() *metrics.Metrics {
	if !c.Metrics.Enabled {
		return nil
	}
	return metrics.New(c.Metrics.Namespace)
}

// BusOptions converts the bus section into event bus options.
func (c Config) BusOptions(logger *slog.Logger, m *metrics.Metrics) []event.BusOption {
	keys := keygen.New(
		keygen.WithPrefix(c.Bus.KeyPrefix),
		keygen.WithSuffixLength(c.Bus.KeySuffixLength),
	)

	opts := []event.BusOption{
		event.WithInternalMarker(c.Bus.InternalPrefix),
		event.WithKeyGenerator(keys),
		event.WithLogger(logger),
	}
	if len(c.Bus.InternalEvents) > 0 {
		opts = append(opts, event.WithInternalEvents(c.Bus.InternalEvents...))
	}
	if m != nil {
		opts = append(opts, event.WithMetrics(m))
	}
	return opts
}

// NewBus creates a bus from the configuration.
func (c Config) NewBus(logger *slog.Logger, m *metrics.Metrics) *event.Bus {
	return event.NewBus(c.BusOptions(logger, m)...)
}
