package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/reformat-sql/pkg/config"
	"github.com/pseudomuto/reformat-sql/pkg/consts"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

// stdio is the path argument selecting standard input or output.
const stdio = "-"

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Config     *config.Config
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers the reformat-sql CLI application with the fx lifecycle. The
// application runs once the fx app has started, and the fx app shuts down with
// the exit code derived from the result (see ExitCode).
//
// Without a sub-command the application is a line filter: every line of the
// input is formatted on its own and written to the output.
//
// Global Flags:
//   - --config, -c: config file (env REFORMAT_SQL_CONFIG, default .reformat-sql.yaml)
//
// Example usage:
//
//	# Format stdin to stdout
//	reformat-sql < queries.sql
//
//	# Read from one file and write to another
//	reformat-sql queries.sql formatted.sql
//
//	# Format files in place
//	reformat-sql fmt -w db/
func Run(p Params) {
	app := newApp(p)

	p.Lifecycle.Append(fx.StartHook(func() {
		// The filter may wait on stdin indefinitely, so it must not hold up the
		// start hook.
		go func() {
			err := app.Run(p.Ctx, p.Args)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(ExitCode(err)))
		}()
	}))
}

func newApp(p Params) *cli.Command {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Root().Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Root().Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Root().Writer, "Date:", p.Version.Timestamp)
	}

	return &cli.Command{
		Name:      "reformat-sql",
		Usage:     "Pretty-print SQL, one statement per line of input",
		ArgsUsage: "[infile] [outfile]",
		Description: `reformat-sql reads SQL from infile (default: standard input) and writes
it to outfile (default: standard output) with clause keywords on their own
lines. Every input line is formatted independently. Use "-" to name standard
input or output explicitly.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the reformat-sql config file",
				Sources: cli.EnvVars(consts.ConfigEnvVar),
				Value:   consts.DefaultConfigFile,
			},
		},
		Before:   loadConfig(p.Config),
		Action:   filter(p.Config),
		Commands: p.Commands,
	}
}

// loadConfig reloads the configuration when --config is given on the command
// line. The config fx already provided is updated in place so every command
// sees the same values.
func loadConfig(cfg *config.Config) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if !cmd.IsSet("config") {
			return ctx, nil
		}

		loaded, err := config.LoadConfigFile(cmd.String("config"))
		if err != nil {
			return ctx, err
		}

		*cfg = *loaded
		slog.SetDefault(cfg.Logger(cmd.Root().ErrWriter))
		return ctx, nil
	}
}

// filter formats infile into outfile line by line.
func filter(cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) (err error) {
		if cmd.Args().Len() > 2 {
			return errors.Errorf("expected at most 2 arguments (infile, outfile), got %d", cmd.Args().Len())
		}

		in, closeIn, err := openInput(cmd.Args().Get(0), cmd.Root().Reader)
		if err != nil {
			return err
		}
		defer closeIn()

		out, closeOut, err := openOutput(cmd.Args().Get(1), cmd.Root().Writer)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closeOut(); err == nil {
				err = cerr
			}
		}()

		slog.Debug("Formatting", "in", nameOr(cmd.Args().Get(0)), "out", nameOr(cmd.Args().Get(1)))
		return cfg.GetFormatter().Lines(in, out)
	}
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == stdio {
		return stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open input file: %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == stdio {
		return stdout, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, consts.ModeFile)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create output file: %s", path)
	}

	return f, func() error {
		return errors.Wrapf(f.Close(), "failed to close output file: %s", path)
	}, nil
}

func nameOr(path string) string {
	if path == "" {
		return stdio
	}
	return path
}
