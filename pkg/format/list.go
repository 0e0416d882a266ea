package format

import (
	"strings"

	"github.com/pseudomuto/reformat-sql/pkg/parser"
)

// identifierList lays out a comma separated list with one entry per row.
// A list whose first entry ends in a direction keyword ("name DESC") is an
// ordering list, anything else is a projection.
func (f *Formatter) identifierList(list *parser.Token, cur row, base int) []row {
	entries := list.Entries()
	if len(entries) == 0 {
		return []row{cur.add(list.Value)}
	}

	if entries[0].EndsWithKeyword() {
		return f.orderingList(list, cur, base)
	}
	return f.projectionList(list, cur, base)
}

func (f *Formatter) orderingList(list *parser.Token, cur row, base int) []row {
	var (
		rows  []row
		first = true
	)

	for _, tok := range list.Children {
		switch {
		case tok.IsWhitespace(), tok.IsPunctuation(","):
			continue
		case tok.Kind == parser.Comment:
			cur = cur.add(" ", tok.Value)
		case first:
			cur = cur.add(tok.Value)
			first = false
		default:
			rows = append(rows, cur.add(","))
			cur = newRow(f.indent(base, 2)).add(tok.Value)
		}
	}

	return append(rows, cur)
}

// projectionList lays out a select list. With wildcard collapsing enabled an
// entry "t.col" is shown as "t.*" and later entries sharing its qualifier are
// dropped.
func (f *Formatter) projectionList(list *parser.Token, cur row, base int) []row {
	var (
		rows    []row
		first   = true
		current string
		named   bool
	)

	collapse := f.options.CollapseWildcards
	for _, tok := range list.Children {
		switch {
		case tok.IsWhitespace(), tok.IsPunctuation(","):
			continue
		case tok.Kind == parser.Comment:
			cur = cur.add(" ", tok.Value)
			continue
		}

		starrable := collapse && tok.Kind == parser.Identifier && !tok.StartsWithCase()
		if first {
			first = false
			if starrable {
				current, named = tok.ParentName(), true
				cur = cur.add(starred(tok))
			} else {
				cur = cur.add(tok.Value)
			}
			continue
		}

		if starrable && named && tok.ParentName() == current {
			continue
		}

		display := tok.Value
		if starrable && !tok.HasAlias() {
			display = starred(tok)
			current, named = tok.ParentName(), true
		}

		rows = append(rows, cur.add(","))
		if tok.StartsWithCase() {
			caseRows := f.caseExpression(tok, base)
			rows = append(rows, caseRows[:len(caseRows)-1]...)
			cur = caseRows[len(caseRows)-1]
			continue
		}

		cur = newRow(f.indent(base, 2)).add(display)
	}

	return append(rows, cur)
}

// starred renders tok with its trailing child replaced by "*". The token
// itself is left untouched.
func starred(tok *parser.Token) string {
	if len(tok.Children) == 0 {
		return "*"
	}

	var sb strings.Builder
	for _, child := range tok.Children[:len(tok.Children)-1] {
		sb.WriteString(child.Value)
	}
	sb.WriteString("*")
	return sb.String()
}
