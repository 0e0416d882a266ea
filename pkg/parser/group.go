package parser

import (
	"slices"

	"github.com/pkg/errors"
)

var (
	// ErrUnbalancedParenthesis is returned when "(" and ")" don't pair up.
	ErrUnbalancedParenthesis = errors.New("unbalanced parenthesis")

	// ErrUnterminatedCase is returned for a CASE expression without END.
	ErrUnterminatedCase = errors.New("CASE expression without END")
)

// whereClosers end a WHERE clause at the same nesting level.
var whereClosers = []string{
	"ORDER BY", "GROUP BY", "LIMIT", "OFFSET", "UNION", "UNION ALL", "EXCEPT",
	"INTERSECT", "HAVING", "RETURNING", "INTO", "WINDOW",
}

var comparisonOperators = map[string]struct{}{
	"=": {}, "<>": {}, "!=": {}, "<": {}, ">": {}, "<=": {}, ">=": {}, "~": {},
}

// pass is a single grouping step over one level of the token tree.
type pass func([]*Token) ([]*Token, error)

// passes run in order after parentheses have been matched. Later passes rely
// on the groups built by earlier ones (e.g. comparisons need identifiers).
var passes = []pass{
	recurse(groupCase),
	recurse(groupFunctions),
	recurse(groupWhere),
	recurse(groupIdentifiers),
	recurse(groupOrder),
	recurse(groupOperations),
	recurse(groupComparisons),
	recurse(groupNot),
	recurse(groupAliases),
	recurse(groupIdentifierLists),
}

// group turns the flat tokens of one statement into a token tree.
func group(tokens []*Token) ([]*Token, error) {
	tokens, err := groupParenthesis(tokens)
	if err != nil {
		return nil, err
	}

	for _, p := range passes {
		if tokens, err = p(tokens); err != nil {
			return nil, err
		}
	}

	return tokens, nil
}

// recurse applies p to the children of every composite token, depth first,
// and then to the level itself.
func recurse(p pass) pass {
	var walk pass
	walk = func(tokens []*Token) ([]*Token, error) {
		for _, tok := range tokens {
			if !tok.Kind.IsGroup() {
				continue
			}

			children, err := walk(tok.Children)
			if err != nil {
				return nil, err
			}
			tok.Children = children
		}

		return p(tokens)
	}

	return walk
}

func groupParenthesis(tokens []*Token) ([]*Token, error) {
	stack := [][]*Token{nil}
	for _, tok := range tokens {
		top := len(stack) - 1
		switch {
		case tok.IsPunctuation("("):
			stack = append(stack, []*Token{tok})
		case tok.IsPunctuation(")"):
			if top == 0 {
				return nil, errors.Wrap(ErrUnbalancedParenthesis, "unexpected )")
			}

			group := newGroup(Parenthesis, append(stack[top], tok))
			stack = stack[:top]
			stack[top-1] = append(stack[top-1], group)
		default:
			stack[top] = append(stack[top], tok)
		}
	}

	if len(stack) != 1 {
		return nil, errors.Wrap(ErrUnbalancedParenthesis, "missing )")
	}

	return stack[0], nil
}

func groupCase(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.IsKeyword("CASE") {
			out = append(out, tok)
			continue
		}

		end := matchEnd(tokens, i)
		if end < 0 {
			return nil, errors.WithStack(ErrUnterminatedCase)
		}

		body, err := groupCase(tokens[i+1 : end])
		if err != nil {
			return nil, err
		}

		children := make([]*Token, 0, len(body)+2)
		children = append(children, tok)
		children = append(children, body...)
		children = append(children, tokens[end])
		out = append(out, newGroup(Case, children))
		i = end
	}

	return out, nil
}

// matchEnd returns the index of the END closing the CASE at start, or -1.
func matchEnd(tokens []*Token, start int) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch {
		case tokens[i].IsKeyword("CASE"):
			depth++
		case tokens[i].IsKeyword("END"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func groupFunctions(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == Name && i+1 < len(tokens) && tokens[i+1].Kind == Parenthesis {
			out = append(out, newGroup(Function, []*Token{tok, tokens[i+1]}))
			i++
			continue
		}
		out = append(out, tok)
	}
	return out, nil
}

func groupWhere(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if !tokens[i].IsKeyword("WHERE") {
			out = append(out, tokens[i])
			continue
		}

		// inside a parenthesis the clause ends before the closing ")"
		limit := len(tokens)
		if tokens[limit-1].IsPunctuation(")") {
			limit--
		}

		end := limit
		for j := i + 1; j < limit; j++ {
			if tokens[j].IsKeyword(whereClosers...) {
				end = j
				break
			}
		}

		out = append(out, newGroup(Where, slices.Clone(tokens[i:end])))
		i = end - 1
	}
	return out, nil
}

func groupIdentifiers(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind != Name {
			out = append(out, tok)
			continue
		}

		children := []*Token{tok}
		j := i + 1
		for j+1 < len(tokens) && tokens[j].IsPunctuation(".") && isNamePart(tokens[j+1]) {
			part := tokens[j+1]
			if part.Kind == Keyword {
				part = newToken(Name, part.Value)
			}

			children = append(children, tokens[j], part)
			j += 2
			if part.Kind == Wildcard || part.Kind == Function {
				break
			}
		}

		out = append(out, newGroup(Identifier, children))
		i = j - 1
	}
	return out, nil
}

func isNamePart(tok *Token) bool {
	switch tok.Kind {
	case Name, Keyword, Wildcard, Function:
		return true
	default:
		return false
	}
}

// groupOrder attaches ASC/DESC to the expression before it.
func groupOrder(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsKeyword("ASC", "DESC") {
			p := prevNonWS(out, len(out)-1)
			if p >= 0 && (out[p].Kind == Identifier || out[p].Kind == Number) {
				children := append(slices.Clone(out[p:]), tok)
				out = append(out[:p], newGroup(Identifier, children))
				continue
			}
		}
		out = append(out, tok)
	}
	return out, nil
}

// groupOperations groups arithmetic ("a + b", "price * qty") and decides
// whether a "*" is a wildcard or a multiplication.
func groupOperations(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == Wildcard {
			if p := prevNonWS(out, len(out)-1); p >= 0 && isOperand(out[p]) {
				tok = newToken(Operator, tok.Value)
			}
		}

		out = append(out, tok)
		if !isOperand(tok) {
			continue
		}

		op := prevNonWS(out, len(out)-2)
		if op < 0 || out[op].Kind != Operator || isComparisonOperator(out[op]) {
			continue
		}

		left := prevNonWS(out, op-1)
		if left < 0 || !isOperand(out[left]) {
			continue
		}

		var children []*Token
		if out[left].Kind == Operation {
			children = slices.Clone(out[left].Children)
			children = append(children, out[left+1:]...)
		} else {
			children = slices.Clone(out[left:])
		}
		out = append(out[:left], newGroup(Operation, children))
	}
	return out, nil
}

func groupComparisons(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if isOperand(tokens[i]) {
			if end := matchComparison(tokens, i); end > i {
				out = append(out, newGroup(Comparison, slices.Clone(tokens[i:end+1])))
				i = end
				continue
			}
		}
		out = append(out, tokens[i])
	}
	return out, nil
}

// matchComparison returns the index of the last token of the comparison whose
// left operand is at i, or -1.
func matchComparison(tokens []*Token, i int) int {
	j := nextNonWS(tokens, i+1)
	if j < 0 {
		return -1
	}

	op := tokens[j]
	negated := false
	if op.IsKeyword("NOT") {
		if j = nextNonWS(tokens, j+1); j < 0 {
			return -1
		}
		op, negated = tokens[j], true
	}

	switch {
	case !negated && isComparisonOperator(op):
		return operandAt(tokens, nextNonWS(tokens, j+1))
	case !negated && op.IsKeyword("IS"):
		k := nextNonWS(tokens, j+1)
		if k >= 0 && tokens[k].IsKeyword("NOT") {
			k = nextNonWS(tokens, k+1)
		}
		return operandAt(tokens, k)
	case op.IsKeyword("LIKE", "ILIKE", "IN"):
		return operandAt(tokens, nextNonWS(tokens, j+1))
	case op.IsKeyword("BETWEEN"):
		low := operandAt(tokens, nextNonWS(tokens, j+1))
		if low < 0 {
			return -1
		}

		and := nextNonWS(tokens, low+1)
		if and < 0 || !tokens[and].IsKeyword("AND") {
			return -1
		}
		return operandAt(tokens, nextNonWS(tokens, and+1))
	default:
		return -1
	}
}

// groupNot folds a NOT prefix into the expression it negates.
func groupNot(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.IsKeyword("NOT") {
			out = append(out, tok)
			continue
		}

		end := -1
		if j := nextNonWS(tokens, i+1); j >= 0 {
			switch {
			case tokens[j].IsKeyword("NULL"):
				// part of "IS NOT NULL"
			case tokens[j].IsKeyword("EXISTS"):
				if k := nextNonWS(tokens, j+1); k >= 0 && tokens[k].Kind == Parenthesis {
					end = k
				}
			default:
				end = operandAt(tokens, j)
			}
		}

		if end < 0 {
			out = append(out, tok)
			continue
		}

		out = append(out, newGroup(Operation, slices.Clone(tokens[i:end+1])))
		i = end
	}
	return out, nil
}

// groupAliases folds "expr AS name" and "expr name" into an identifier. An
// identifier on the left is extended rather than nested.
func groupAliases(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		end := -1
		if isAliasable(tok) {
			end = matchAlias(tokens, i)
		}

		if end < 0 {
			out = append(out, tok)
			continue
		}

		var children []*Token
		if tok.Kind == Identifier {
			children = slices.Clone(tok.Children)
		} else {
			children = []*Token{tok}
		}
		children = append(children, tokens[i+1:end+1]...)
		out = append(out, newGroup(Identifier, children))
		i = end
	}
	return out, nil
}

func isAliasable(tok *Token) bool {
	switch tok.Kind {
	case Identifier, Function, Parenthesis, Case, Operation, Comparison, Number:
		return true
	default:
		return false
	}
}

func matchAlias(tokens []*Token, i int) int {
	j := nextNonWS(tokens, i+1)
	if j < 0 {
		return -1
	}

	if tokens[j].IsKeyword("AS") {
		k := nextNonWS(tokens, j+1)
		if k >= 0 && tokens[k].Kind == Identifier {
			return k
		}
		return -1
	}

	if j > i+1 && tokens[j].Kind == Identifier {
		return j
	}
	return -1
}

func groupIdentifierLists(tokens []*Token) ([]*Token, error) {
	out := make([]*Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if !isListItem(tokens[i]) {
			out = append(out, tokens[i])
			continue
		}

		end := i
		for {
			comma := nextNonWS(tokens, end+1)
			if comma < 0 || !tokens[comma].IsPunctuation(",") {
				break
			}

			next := nextNonWS(tokens, comma+1)
			if next < 0 || !isListItem(tokens[next]) {
				break
			}
			end = next
		}

		if end == i {
			out = append(out, tokens[i])
			continue
		}

		out = append(out, newGroup(IdentifierList, slices.Clone(tokens[i:end+1])))
		i = end
	}
	return out, nil
}

func isListItem(tok *Token) bool {
	switch tok.Kind {
	case Identifier, Function, Case, Comparison, Operation, Parenthesis,
		Number, String, Placeholder, Wildcard:
		return true
	default:
		return tok.IsKeyword("NULL", "TRUE", "FALSE", "DEFAULT")
	}
}

// isOperand reports whether tok can stand on either side of an operator.
func isOperand(tok *Token) bool {
	switch tok.Kind {
	case Identifier, Number, String, Placeholder, Function, Parenthesis, Case,
		Operation, Comparison:
		return true
	default:
		return tok.IsKeyword("NULL", "TRUE", "FALSE")
	}
}

func isComparisonOperator(tok *Token) bool {
	if tok.Kind != Operator {
		return false
	}
	_, ok := comparisonOperators[tok.Value]
	return ok
}

func operandAt(tokens []*Token, i int) int {
	if i < 0 || !isOperand(tokens[i]) {
		return -1
	}
	return i
}

// nextNonWS returns the index of the first non-whitespace token at or after
// from, or -1.
func nextNonWS(tokens []*Token, from int) int {
	for i := from; i >= 0 && i < len(tokens); i++ {
		if !tokens[i].IsWhitespace() {
			return i
		}
	}
	return -1
}

// prevNonWS returns the index of the last non-whitespace token at or before
// from, or -1.
func prevNonWS(tokens []*Token, from int) int {
	for i := from; i >= 0 && i < len(tokens); i-- {
		if !tokens[i].IsWhitespace() {
			return i
		}
	}
	return -1
}
