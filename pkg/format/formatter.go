package format

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/reformat-sql/pkg/parser"
)

type (
	// FormatterOptions controls formatting behavior
	FormatterOptions struct {
		// IndentSize is the width of one indent step. Clause keywords such as
		// ORDER BY start one step in, FROM and list entries two steps.
		IndentSize int
		// CollapseWildcards rewrites the projection list "t.a, t.b, u.c" as
		// "t.*, u.*". When false, list entries are laid out but left as written.
		CollapseWildcards bool
	}

	// Formatter lays out parsed statements one clause per line.
	Formatter struct {
		options FormatterOptions
	}
)

// Defaults are the standard formatting options.
var Defaults = FormatterOptions{
	IndentSize:        4,
	CollapseWildcards: true,
}

// New creates a new Formatter with the specified options. A non-positive
// IndentSize falls back to the default.
func New(options FormatterOptions) *Formatter {
	if options.IndentSize <= 0 {
		options.IndentSize = Defaults.IndentSize
	}
	return &Formatter{options: options}
}

// Options returns the options the formatter was created with.
func (f *Formatter) Options() FormatterOptions {
	return f.options
}

// Format writes the formatted statements to w, one line per row. Nil
// statements are skipped.
func (f *Formatter) Format(w io.Writer, stmts ...*parser.Statement) error {
	var lines []string
	for _, stmt := range stmts {
		if stmt == nil {
			continue
		}
		lines = append(lines, f.Statement(stmt)...)
	}

	if len(lines) == 0 {
		return nil
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return errors.Wrap(err, "failed to write formatted SQL")
}

// String parses sql and returns its formatted form. Input without any
// statements formats to the empty string.
func (f *Formatter) String(sql string) (string, error) {
	parsed, err := parser.ParseString(sql)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := f.Format(&sb, parsed.Statements...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Format writes stmts to w using the given options.
func Format(w io.Writer, options FormatterOptions, stmts ...*parser.Statement) error {
	return New(options).Format(w, stmts...)
}

// String formats sql using the default options.
func String(sql string) (string, error) {
	return New(Defaults).String(sql)
}

// indent returns the given number of indent steps past base as spaces.
func (f *Formatter) indent(base, steps int) string {
	return strings.Repeat(" ", base+steps*f.options.IndentSize)
}
