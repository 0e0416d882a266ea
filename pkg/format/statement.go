package format

import (
	"github.com/pseudomuto/reformat-sql/pkg/parser"
)

// clauseSteps maps the keywords that start a new line to their indent, in
// steps past the statement's base indent.
var clauseSteps = map[string]int{
	"FROM":            2,
	"ON":              2,
	"LIMIT":           1,
	"INNER JOIN":      1,
	"LEFT OUTER JOIN": 1,
	"ORDER BY":        1,
}

// Statement lays out a single statement and returns its lines. The
// statement's leading spaces are the base indent every other indent is
// relative to.
func (f *Formatter) Statement(stmt *parser.Statement) []string {
	if stmt == nil {
		return nil
	}

	var (
		base  = stmt.Indent()
		lines []string
		cur   row
	)

	for _, tok := range stmt.Tokens {
		var rows []row
		switch tok.Kind {
		case parser.IdentifierList:
			rows = f.identifierList(tok, cur, base)
		case parser.Where:
			if !cur.blank() {
				lines = append(lines, cur.String())
			}
			rows = f.where(tok, base)
		default:
			rows = f.token(tok, cur, base)
		}

		for _, r := range rows[:len(rows)-1] {
			lines = append(lines, r.String())
		}
		cur = rows[len(rows)-1]
	}

	if last := cur.String(); last != "" || len(lines) == 0 {
		lines = append(lines, last)
	}
	return lines
}

// token appends tok to cur, starting a new row first when tok opens a clause.
func (f *Formatter) token(tok *parser.Token, cur row, base int) []row {
	var rows []row
	if steps, ok := clauseSteps[tok.Normalized()]; ok && tok.IsKeyword() {
		rows = flush(rows, cur)
		cur = newRow(f.indent(base, steps))
	}

	return append(rows, cur.add(tok.Value))
}
