package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/pseudomuto/reformat-sql/pkg/config"
	"github.com/pseudomuto/reformat-sql/pkg/consts"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

type (
	fmtOptions struct {
		write bool
		list  bool
		diff  bool
	}

	// fmtResult is the outcome of formatting one file.
	fmtResult struct {
		path      string
		original  string
		formatted string
	}
)

func (r fmtResult) changed() bool {
	return r.original != r.formatted
}

// fmtCmd creates a CLI command for formatting SQL files in the spirit of
// gofmt. Each path may be a file, a directory (walked recursively for files
// with a configured extension) or a glob pattern supporting "**".
//
// Each statement of a file is formatted like a line of the root command's
// input. Statements already laid out over several lines are joined back first
// (see format.Formatter.Reformat), so formatted files are left unchanged.
//
// Flags:
//   - -w: write the result back to files that changed
//   - -l: list the files whose formatting differs
//   - -d: print a unified diff for files whose formatting differs
//
// Without any flag the formatted content of every file is written to stdout.
//
// Examples:
//
//	# Format a single file to stdout
//	reformat-sql fmt queries.sql
//
//	# Format every SQL file below db/ in place
//	reformat-sql fmt -w db/
//
//	# Check which files need formatting
//	reformat-sql fmt -l 'db/**/*.sql'
func fmtCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Format SQL files",
		ArgsUsage: "<path>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write result to source files instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "List files whose formatting differs",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "Display diffs instead of rewriting files",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return errors.New("at least one path argument is required")
			}

			opts := fmtOptions{
				write: cmd.Bool("write"),
				list:  cmd.Bool("list"),
				diff:  cmd.Bool("diff"),
			}

			paths, err := collectPaths(cfg, cmd.Args().Slice())
			if err != nil {
				return err
			}

			results, err := formatFiles(ctx, cfg, paths)
			if err != nil {
				return err
			}

			return report(cmd.Root().Writer, results, opts)
		},
	}
}

// collectPaths expands the arguments into a sorted list of unique files.
func collectPaths(cfg *config.Config, args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		if isGlob(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Wrapf(err, "invalid pattern: %s", arg)
			}
			if len(matches) == 0 {
				return nil, errors.Errorf("no files match pattern: %s", arg)
			}

			paths = append(paths, matches...)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to access path: %s", arg)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		files, err := walkDirectory(cfg, arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}

	slices.Sort(paths)
	return slices.Compact(paths), nil
}

func walkDirectory(cfg *config.Config, dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && cfg.HasExtension(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk directory: %s", dir)
	}

	if len(files) == 0 {
		return nil, errors.Errorf("no SQL files found in directory: %s", dir)
	}

	return files, nil
}

func isGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// formatFiles formats all paths concurrently. Results keep the order of paths.
func formatFiles(ctx context.Context, cfg *config.Config, paths []string) ([]fmtResult, error) {
	formatter := cfg.GetFormatter()
	results := make([]fmtResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read file: %s", path)
			}

			var buf bytes.Buffer
			if err := formatter.Reformat(bytes.NewReader(content), &buf); err != nil {
				return errors.Wrapf(err, "failed to format file: %s", path)
			}

			slog.Debug("Formatted file", "path", path, "changed", buf.String() != string(content))
			results[i] = fmtResult{path: path, original: string(content), formatted: buf.String()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func report(w io.Writer, results []fmtResult, opts fmtOptions) error {
	for _, res := range results {
		if !opts.write && !opts.list && !opts.diff {
			if _, err := io.WriteString(w, res.formatted); err != nil {
				return errors.Wrap(err, "failed to write formatted content to output")
			}
			continue
		}

		if !res.changed() {
			continue
		}

		if opts.list {
			if _, err := fmt.Fprintln(w, res.path); err != nil {
				return errors.Wrap(err, "failed to write file list")
			}
		}

		if opts.diff {
			if err := writeDiff(w, res); err != nil {
				return err
			}
		}

		if opts.write {
			if err := os.WriteFile(res.path, []byte(res.formatted), consts.ModeFile); err != nil {
				return errors.Wrapf(err, "failed to write formatted content to file: %s", res.path)
			}
		}
	}

	return nil
}

func writeDiff(w io.Writer, res fmtResult) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(res.original),
		B:        difflib.SplitLines(res.formatted),
		FromFile: "a/" + filepath.ToSlash(res.path),
		ToFile:   "b/" + filepath.ToSlash(res.path),
		Context:  3,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to diff file: %s", res.path)
	}

	_, err = io.WriteString(w, diff)
	return errors.Wrap(err, "failed to write diff")
}
