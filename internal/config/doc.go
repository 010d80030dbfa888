// Package config loads Shotgun configuration.
//
// Settings are layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← SHOTGUN_*
//	├─────────────────────────────┤
//	│  2. TOML File               │  ← --config shotgun.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A complete file looks like:
//
//	[bus]
//	internal_prefix = "_internal/"
//	key_prefix = "SG-"
//	key_suffix_length = 25
//	internal_events = ["app/ready"]
//
//	[log]
//	level = "info"    # debug, info, warn, error
//	format = "text"   # text, json
//
//	[metrics]
//	enabled = false
//	namespace = "shotgun"
//
//	[script]
//	timeout = "5s"
//
// Unknown keys are rejected.
//
// # Usage
//
//	cfg, err := config.Load("shotgun.toml")
//	if err != nil {
//	    return err
//	}
//	logger := cfg.NewLogger(os.Stderr)
//	bus := cfg.NewBus(logger, cfg.NewMetrics())
package config
