package format

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/pseudomuto/reformat-sql/pkg/parser"
)

// continuationKeywords start the rows the formatter breaks a statement into,
// besides the clause keywords.
var continuationKeywords = []string{"WHERE", "AND", "OR", "WHEN", "THEN", "ELSE", "END"}

// Lines formats r line by line, treating every input line as a separate
// chunk of SQL, and writes each result to w followed by a newline. Blank
// lines produce blank lines.
//
// Output for earlier lines has already been written when a later line
// fails; the returned error names the failing line.
func (f *Formatter) Lines(r io.Reader, w io.Writer) error {
	return eachLine(r, func(lineNo int, line string) error {
		return f.writeLine(w, lineNo, line)
	})
}

// Reformat formats r like Lines, except that the rows of a statement that was
// already laid out over several lines are joined back into one line first.
// Formatting its own output is therefore a no-op.
//
// A line continues the statement above it when that statement has an open
// parenthesis or ends in a comma, or when the line starts with ")" or one of
// the keywords the formatter breaks lines at (FROM, WHERE, AND, WHEN, END,
// ...). Blank lines always end a statement. Errors name the first line of the
// failing statement.
func (f *Formatter) Reformat(r io.Reader, w io.Writer) error {
	var (
		stmt  []string
		start int
		depth int
	)

	emit := func() error {
		if len(stmt) == 0 {
			return nil
		}

		sql := strings.Join(stmt, " ")
		stmt = nil
		return f.writeLine(w, start, sql)
	}

	err := eachLine(r, func(lineNo int, line string) error {
		blank := strings.TrimSpace(line) == ""
		if len(stmt) > 0 && !blank && (depth > 0 || continues(stmt[len(stmt)-1], line)) {
			stmt = append(stmt, strings.TrimSpace(line))
			depth += parser.Depth(line)
			return nil
		}

		if err := emit(); err != nil {
			return err
		}

		if blank {
			return f.writeLine(w, lineNo, "")
		}

		stmt, start, depth = []string{line}, lineNo, parser.Depth(line)
		return nil
	})
	if err != nil {
		return err
	}

	return emit()
}

func (f *Formatter) writeLine(w io.Writer, lineNo int, line string) error {
	formatted, err := f.String(line)
	if err != nil {
		return errors.Wrapf(err, "line %d", lineNo)
	}

	_, err = io.WriteString(w, formatted+"\n")
	return errors.Wrap(err, "failed to write formatted SQL")
}

// continues reports whether line continues a statement whose last line is prev.
func continues(prev, line string) bool {
	if strings.HasSuffix(strings.TrimSpace(prev), ",") {
		return true
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ")") {
		return true
	}

	words := strings.FieldsFunc(strings.ToUpper(trimmed), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	for kw := range clauseSteps {
		if startsWith(words, kw) {
			return true
		}
	}
	for _, kw := range continuationKeywords {
		if startsWith(words, kw) {
			return true
		}
	}
	return false
}

func startsWith(words []string, keyword string) bool {
	parts := strings.Fields(keyword)
	if len(words) < len(parts) {
		return false
	}

	for i, part := range parts {
		if words[i] != part {
			return false
		}
	}
	return true
}

// eachLine calls fn for every line of r with its 1-based number and without
// the line ending. A final line without a newline is included.
func eachLine(r io.Reader, fn func(lineNo int, line string) error) error {
	reader := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return errors.Wrap(readErr, "failed to read SQL")
		}

		if line == "" && readErr == io.EOF {
			return nil
		}

		if err := fn(lineNo, strings.TrimRight(line, "\r\n")); err != nil {
			return err
		}

		if readErr == io.EOF {
			return nil
		}
	}
}

// Lines formats r line by line using the default options.
func Lines(r io.Reader, w io.Writer) error {
	return New(Defaults).Lines(r, w)
}

// Reformat formats r using the default options, joining the lines of
// statements that are already laid out (see Formatter.Reformat).
func Reformat(r io.Reader, w io.Writer) error {
	return New(Defaults).Reformat(r, w)
}
