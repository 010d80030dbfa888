package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every recognised environment variable.
const EnvPrefix = "SHOTGUN_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	mapping map[string]string // Env var -> config path
	strings map[string]bool   // Config paths whose values are never converted
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a loader with the default SHOTGUN_* mappings.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{
		mapping: defaultEnvMapping(),
		strings: map[string]bool{
			"bus.internal_prefix": true,
			"bus.key_prefix":      true,
			"metrics.namespace":   true,
			"script.timeout":      true,
		},
		lookup: os.LookupEnv,
	}
}

// NewEnvLoaderWithLookup creates a loader reading variables through lookup.
func NewEnvLoaderWithLookup(lookup func(string) (string, bool)) *EnvLoader {
	l := NewEnvLoader()
	if lookup != nil {
		l.lookup = lookup
	}
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		EnvPrefix + "INTERNAL_PREFIX":   "bus.internal_prefix",
		EnvPrefix + "KEY_PREFIX":        "bus.key_prefix",
		EnvPrefix + "KEY_SUFFIX_LENGTH": "bus.key_suffix_length",
		EnvPrefix + "LOG_LEVEL":         "log.level",
		EnvPrefix + "LOG_FORMAT":        "log.format",
		EnvPrefix + "METRICS_ENABLED":   "metrics.enabled",
		EnvPrefix + "METRICS_NAMESPACE": "metrics.namespace",
		EnvPrefix + "SCRIPT_TIMEOUT":    "script.timeout",
	}
}

// Load reads the mapped environment variables and returns a configuration
// map. Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			if l.strings[path] {
				setByPath(config, path, val)
				continue
			}
			setByPath(config, path, parseValue(val))
		}
	}
	return config, nil
}

// parseValue converts integers and booleans; anything else stays a string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
