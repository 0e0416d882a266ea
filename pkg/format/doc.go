// Package format lays out parsed SQL statements for reading.
//
// The formatter only moves whitespace around: it breaks a statement into
// lines at clause keywords and indents each line relative to the statement's
// own leading indentation. The single exception is wildcard collapsing of
// select lists (see below), which rewrites list entries.
//
// Layout rules, with b the statement's base indent and one step being
// FormatterOptions.IndentSize (4 by default):
//   - FROM and ON start a new line at b+2 steps
//   - LIMIT, INNER JOIN, LEFT OUTER JOIN and ORDER BY start a new line at b+1 step
//   - identifier lists put every entry after the first on its own line at b+2 steps
//   - CASE expressions in a select list get a line per WHEN, THEN, ELSE and END
//   - WHERE starts a line at b+1 step with AND/OR at the same indent;
//     parenthesised conditions nest one further step per level
//
// # Wildcard collapsing
//
// When CollapseWildcards is set (the default), a select list is reduced to
// one "qualifier.*" entry per run of entries sharing a qualifier:
//
//	SELECT a.id, a.name, b.id FROM a JOIN b ON a.id = b.a_id
//
// becomes
//
//	SELECT a.*,
//	        b.*
//	        FROM a JOIN b
//	        ON a.id = b.a_id
//
// Aliased entries keep their text. Note that this changes the meaning of the
// query; disable it to get a pure whitespace reformat.
//
// Usage:
//
//	// Object-oriented API with default options
//	formatter := format.New(format.Defaults)
//	out, err := formatter.String("SELECT t.a, t.b FROM t WHERE t.a = 1 AND t.b = 2")
//
//	// Functional API
//	var buf bytes.Buffer
//	err := format.Format(&buf, format.Defaults, statements...)
//
//	// Line filter, one statement per input line
//	err := format.Lines(os.Stdin, os.Stdout)
package format
