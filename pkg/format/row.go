package format

import (
	"strings"
	"unicode"
)

// row is an output line under construction, kept as fragments until it is
// flushed.
type row []string

func newRow(indent string) row {
	return row{indent}
}

func (r row) add(parts ...string) row {
	return append(r, parts...)
}

// blank reports whether the row holds nothing but whitespace.
func (r row) blank() bool {
	for _, part := range r {
		if strings.TrimSpace(part) != "" {
			return false
		}
	}
	return true
}

// String closes the row into a line with trailing whitespace removed.
func (r row) String() string {
	return strings.TrimRightFunc(strings.Join(r, ""), unicode.IsSpace)
}

// flush appends r to rows unless it is blank.
func flush(rows []row, r row) []row {
	if r.blank() {
		return rows
	}
	return append(rows, r)
}
