package format

import (
	"github.com/pseudomuto/reformat-sql/pkg/parser"
)

// caseExpression lays out a CASE expression (or an identifier wrapping one,
// such as "CASE ... END AS label") two steps past base. WHEN and ELSE get
// one more step, THEN two, and END lines up with CASE.
func (f *Formatter) caseExpression(tok *parser.Token, base int) []row {
	caseTok, rest := tok, []*parser.Token(nil)
	if tok.Kind != parser.Case {
		for i, child := range tok.Children {
			if child.Kind == parser.Case {
				caseTok, rest = child, tok.Children[i+1:]
				break
			}
		}
	}

	var (
		rows []row
		cur  = newRow(f.indent(base, 2))
	)

	for _, part := range caseTok.Children {
		if steps, ok := caseSteps(part); ok {
			rows = append(rows, cur)
			cur = newRow(f.indent(base, 2+steps))
		}
		cur = cur.add(part.Value)
	}

	for _, part := range rest {
		cur = cur.add(part.Value)
	}

	return append(rows, cur)
}

func caseSteps(tok *parser.Token) (int, bool) {
	switch {
	case tok.IsKeyword("WHEN", "ELSE"):
		return 1, true
	case tok.IsKeyword("THEN"):
		return 2, true
	case tok.IsKeyword("END"):
		return 0, true
	default:
		return 0, false
	}
}
