package format

import (
	"github.com/pseudomuto/reformat-sql/pkg/parser"
)

// where lays out a WHERE clause one step past base, starting a new row for
// every AND/OR. Parenthesised groups nest one further step per level.
func (f *Formatter) where(clause *parser.Token, base int) []row {
	var (
		indent = f.indent(base, 1)
		rows   []row
		cur    = newRow(indent)
	)

	for _, tok := range clause.Children {
		switch {
		case tok.Kind == parser.Parenthesis:
			head, tail := f.parenthesis(tok, len(indent)+f.options.IndentSize)
			rows = append(rows, cur.add(head...))
			rows = append(rows, tail...)
			cur = row{}
		case tok.IsKeyword("AND", "OR"):
			rows = flush(rows, cur)
			cur = newRow(indent).add(tok.Value)
		default:
			cur = cur.add(tok.Value)
		}
	}

	return append(rows, cur)
}

// parenthesis lays out a parenthesised group at the given indent and returns
// its first row separately so the caller can merge it into its own row.
// Every keyword inside the group starts a new row.
func (f *Formatter) parenthesis(group *parser.Token, indent int) (row, []row) {
	var (
		pad  = f.indent(indent, 0)
		rows []row
		cur  row
	)

	for _, tok := range group.Children {
		switch {
		case tok.Kind == parser.Parenthesis:
			head, tail := f.parenthesis(tok, indent+f.options.IndentSize)
			rows = append(rows, cur.add(head...))
			rows = append(rows, tail...)
			cur = newRow(pad)
		case tok.IsWhitespace() && cur.blank():
			continue
		case tok.IsKeyword():
			rows = flush(rows, cur)
			cur = newRow(pad).add(tok.Value)
		default:
			cur = cur.add(tok.Value)
		}
	}

	rows = append(rows, cur)
	return rows[0], rows[1:]
}
