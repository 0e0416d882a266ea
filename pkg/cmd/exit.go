package cmd

import (
	"log/slog"
	"syscall"

	"github.com/pkg/errors"
)

// ExitCode maps the result of running the CLI to a process exit code.
//
// A closed output pipe (EPIPE) ends the run quietly with the errno as exit
// code, which is what shells expect from filters like `reformat-sql | head`.
// Any other error is logged and yields 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, syscall.EPIPE) {
		return int(syscall.EPIPE)
	}

	slog.Error("Error running command", "err", err)
	return 1
}
