package parser

import (
	"strings"

	"github.com/pseudomuto/reformat-sql/pkg/utils"
)

// Kind classifies a Token. Leaf kinds come straight from the lexer, composite
// kinds are produced by the grouping passes and always carry Children.
type Kind int

const (
	Whitespace Kind = iota
	Comment
	Keyword
	Name
	Wildcard
	String
	Number
	Placeholder
	Operator
	Punctuation

	Identifier
	IdentifierList
	Parenthesis
	Function
	Case
	Where
	Comparison
	Operation
)

var kindNames = [...]string{
	Whitespace:     "Whitespace",
	Comment:        "Comment",
	Keyword:        "Keyword",
	Name:           "Name",
	Wildcard:       "Wildcard",
	String:         "String",
	Number:         "Number",
	Placeholder:    "Placeholder",
	Operator:       "Operator",
	Punctuation:    "Punctuation",
	Identifier:     "Identifier",
	IdentifierList: "IdentifierList",
	Parenthesis:    "Parenthesis",
	Function:       "Function",
	Case:           "Case",
	Where:          "Where",
	Comparison:     "Comparison",
	Operation:      "Operation",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IsGroup reports whether tokens of this kind are composite.
func (k Kind) IsGroup() bool {
	return k >= Identifier
}

// Token is a classified span of SQL text. Composite tokens hold the tokens
// they were grouped from; their Value is the concatenation of the children's
// values, so the original text is always recoverable.
type Token struct {
	Kind     Kind
	Value    string
	Children []*Token
}

func newToken(kind Kind, value string) *Token {
	return &Token{Kind: kind, Value: value}
}

func newGroup(kind Kind, children []*Token) *Token {
	var sb strings.Builder
	for _, child := range children {
		sb.WriteString(child.Value)
	}

	return &Token{
		Kind:     kind,
		Value:    sb.String(),
		Children: children,
	}
}

func (t *Token) String() string {
	return t.Value
}

// IsWhitespace reports whether the token is whitespace.
func (t *Token) IsWhitespace() bool {
	return t.Kind == Whitespace
}

// IsKeyword reports whether the token is a keyword. When values are given
// the normalized keyword must match one of them.
func (t *Token) IsKeyword(values ...string) bool {
	if t == nil || t.Kind != Keyword {
		return false
	}
	if len(values) == 0 {
		return true
	}

	normalized := t.Normalized()
	for _, v := range values {
		if normalized == v {
			return true
		}
	}
	return false
}

// IsPunctuation reports whether the token is the given punctuation mark.
func (t *Token) IsPunctuation(value string) bool {
	return t != nil && t.Kind == Punctuation && t.Value == value
}

// Normalized returns the canonical spelling of a keyword: upper case with
// inner whitespace collapsed ("left  outer join" -> "LEFT OUTER JOIN"). Other
// tokens return their value unchanged.
func (t *Token) Normalized() string {
	if t.Kind != Keyword {
		return t.Value
	}
	return strings.Join(strings.Fields(strings.ToUpper(t.Value)), " ")
}

// First returns the first child that isn't whitespace, or nil.
func (t *Token) First() *Token {
	for _, child := range t.Children {
		if !child.IsWhitespace() {
			return child
		}
	}
	return nil
}

// Last returns the trailing child of a composite token, or nil for leaves.
func (t *Token) Last() *Token {
	if len(t.Children) == 0 {
		return nil
	}
	return t.Children[len(t.Children)-1]
}

// Entries returns the items of an identifier list, skipping the separating
// commas, whitespace and comments.
func (t *Token) Entries() []*Token {
	entries := make([]*Token, 0, len(t.Children))
	for _, child := range t.Children {
		switch {
		case child.IsWhitespace(), child.Kind == Comment, child.IsPunctuation(","):
			continue
		default:
			entries = append(entries, child)
		}
	}
	return entries
}

// EndsWithKeyword reports whether the trailing child is a keyword, as in
// "name DESC".
func (t *Token) EndsWithKeyword() bool {
	return t.Last().IsKeyword()
}

// StartsWithCase reports whether the token is a CASE expression or an
// identifier built around one ("CASE ... END AS label").
func (t *Token) StartsWithCase() bool {
	if t.Kind == Case {
		return true
	}

	first := t.First()
	return first != nil && first.Kind == Case
}

// ParentName returns the qualifier of a dotted reference: the name before the
// first "." among the direct children, with quotes removed. It returns "" when
// the token is not qualified.
func (t *Token) ParentName() string {
	for i, child := range t.Children {
		if !child.IsPunctuation(".") {
			continue
		}
		if i == 0 {
			return ""
		}
		return utils.StripQuotes(t.Children[i-1].Value)
	}
	return ""
}

// HasAlias reports whether the token carries an alias, either explicit
// ("expr AS name") or implicit ("expr name").
func (t *Token) HasAlias() bool {
	for _, child := range t.Children {
		if child.IsKeyword("AS") {
			return true
		}
	}

	if len(t.Children) <= 2 {
		return false
	}

	hasSpace := false
	for _, child := range t.Children {
		if child.IsWhitespace() {
			hasSpace = true
			break
		}
	}
	if !hasSpace {
		return false
	}

	for i := len(t.Children) - 1; i >= 0; i-- {
		switch t.Children[i].Kind {
		case Identifier, Name:
			return true
		}
	}
	return false
}
