package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pseudomuto/reformat-sql/pkg/cmd"
	"github.com/pseudomuto/reformat-sql/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	// Writes to a closed pipe surface as EPIPE errors instead of killing the
	// process, so `reformat-sql | head` exits quietly (see cmd.ExitCode).
	signal.Ignore(syscall.SIGPIPE)

	app := fx.New(
		fx.NopLogger,
		config.Module,
		cmd.Module,
		fx.Supply(
			os.Args,
			&cmd.Version{
				Version:   version,
				Commit:    commit,
				Timestamp: date,
			},
			fx.Annotate(context.Background(), fx.As(new(context.Context))),
		),
	)

	if err := app.Err(); err != nil {
		slog.Error("Failed to start", "err", err)
		os.Exit(1)
	}

	app.Run()
}
