package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/shotgun/internal/event"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "shotgun %s (commit %s, built %s)\n", event.Version, commit, date)
			return err
		},
	}
}
