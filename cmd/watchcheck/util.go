//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// harnessContext returns a context cancelled by SIGINT/SIGTERM so an
// interrupted run still tears the watcher process down.
func harnessContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
