// Package main is the entry point for the shotgun command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Build information (set via ldflags during build).
var (
	commit = "unknown"
	date   = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
