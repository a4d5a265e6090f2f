// Package main is the entry point for the envseed CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thoreinstein/envseed/cmd/envseed/commands"
	"github.com/thoreinstein/envseed/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()

	os.Exit(errors.Report(os.Stderr, err))
}
