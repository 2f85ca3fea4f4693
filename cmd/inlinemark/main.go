// Command inlinemark renders CommonMark with pluggable inline extensions.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/inlinemark/internal/cli"
	"github.com/yaklabco/inlinemark/internal/logging"
)

// Set with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // ldflags injection target
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(logging.WithLogger(ctx, logging.Default()))
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	root := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date})

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return cli.ExitSuccess
	case !errors.Is(err, cli.ErrRenderFailed):
		// Render failures were reported file by file.
		logging.NewInteractive().Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCodeFromError(err)
}
