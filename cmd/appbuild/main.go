// Package main is the entry point for the appbuild CLI.
//
// appbuild is run from the kernel directory before the kernel is compiled.
// It regenerates src/app.asm, which embeds every user program binary into
// the kernel's data segment. All functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags.
// During development, they default to "dev", "none", and "unknown".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bluestar-os/appbuild/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Ctrl-C or SIGTERM cancels the context; the build checks it between
	// steps and exits through the interrupt path.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, cli.NewRootCommand(), os.Stderr)
	stop()

	os.Exit(int(code))
}
