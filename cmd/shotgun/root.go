package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "shotgun",
		Short: "Run Lua scripts against a hierarchical event bus",
		Long: `Shotgun is an in-process publish/subscribe bus whose events are
addressed by "/"-separated paths. A trailing "/*" fires an event and every
event below it.

Configuration is read from the file given by --config, then overridden by
SHOTGUN_* environment variables (SHOTGUN_LOG_LEVEL, SHOTGUN_INTERNAL_PREFIX,
SHOTGUN_KEY_PREFIX, SHOTGUN_SCRIPT_TIMEOUT, ...).`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")

	root.AddCommand(
		newRunCmd(&configPath),
		newVersionCmd(),
	)
	return root
}
