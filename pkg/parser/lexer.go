package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	// keywords lists the words classified as Keyword. Everything else that
	// looks like a word (including function names such as COUNT or COALESCE)
	// is a Name.
	keywords = map[string]struct{}{}

	keywordList = []string{
		"ALL", "AND", "ANY", "AS", "ASC", "BETWEEN", "BY", "CASE", "CROSS", "DELETE",
		"DESC", "DISTINCT", "ELSE", "END", "EXCEPT", "EXISTS", "FALSE", "FIRST", "FOR",
		"FROM", "FULL", "GROUP", "HAVING", "ILIKE", "IN", "INNER", "INSERT", "INTERSECT",
		"INTO", "IS", "JOIN", "LAST", "LEFT", "LIKE", "LIMIT", "NATURAL", "NOT", "NULL",
		"NULLS", "OFFSET", "ON", "OR", "ORDER", "OUTER", "OVER", "PARTITION", "RETURNING",
		"RIGHT", "SELECT", "SET", "SHARE", "THEN", "TRUE", "UNION", "UPDATE", "USING",
		"VALUES", "WHEN", "WHERE", "WINDOW", "WITH",
	}

	// sqlLexer splits SQL text into leaf tokens. Rules are tried in order, so
	// multi-word keywords must precede Ident and comments must precede
	// Operator. Characters no other rule matches ("@", "#", a lone quote) are
	// kept as Punctuation.
	sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[\s\S]*?\*/`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "String", Pattern: `'(?:[^']|'')*'`},
		{Name: "QuotedIdent", Pattern: `"(?:[^"]|"")*"`},
		{Name: "BacktickIdent", Pattern: "`[^`]*`"},
		{Name: "MultiKeyword", Pattern: `(?i)(?:(?:ORDER|GROUP|PARTITION)\s+BY|UNION\s+ALL|(?:(?:LEFT|RIGHT|FULL)\s+)?(?:(?:INNER|OUTER|CROSS|NATURAL)\s+)?JOIN)\b`},
		{Name: "Number", Pattern: `(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Cast", Pattern: `::`},
		{Name: "Placeholder", Pattern: `%\(\w+\)s|%s|\$\d+|\?|:[A-Za-z_]\w*`},
		{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_$]*`},
		{Name: "Star", Pattern: `\*`},
		{Name: "Operator", Pattern: `<=|>=|<>|!=|\|\||[-+/%<>=~!^&|]`},
		{Name: "Punct", Pattern: `[(),.;\[\]]`},
		{Name: "Other", Pattern: `.`},
	})

	symbols = sqlLexer.Symbols()
)

func init() {
	for _, kw := range keywordList {
		keywords[kw] = struct{}{}
	}
}

// isKeyword reports whether word is a reserved word (case-insensitive).
func isKeyword(word string) bool {
	_, ok := keywords[strings.ToUpper(word)]
	return ok
}

// lex turns SQL text into a flat sequence of leaf tokens.
func lex(sql string) ([]*Token, error) {
	lx, err := sqlLexer.LexString("", sql)
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize SQL")
	}

	var tokens []*Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, errors.Wrap(err, "failed to tokenize SQL")
		}
		if tok.EOF() {
			return tokens, nil
		}

		tokens = append(tokens, classify(tok))
	}
}

// classify maps a lexer token onto a leaf Kind.
func classify(tok lexer.Token) *Token {
	switch tok.Type {
	case symbols["Comment"], symbols["MultilineComment"]:
		return newToken(Comment, tok.Value)
	case symbols["Whitespace"]:
		return newToken(Whitespace, tok.Value)
	case symbols["String"]:
		return newToken(String, tok.Value)
	case symbols["QuotedIdent"], symbols["BacktickIdent"]:
		return newToken(Name, tok.Value)
	case symbols["MultiKeyword"]:
		return newToken(Keyword, tok.Value)
	case symbols["Number"]:
		return newToken(Number, tok.Value)
	case symbols["Placeholder"]:
		return newToken(Placeholder, tok.Value)
	case symbols["Ident"]:
		if isKeyword(tok.Value) {
			return newToken(Keyword, tok.Value)
		}
		return newToken(Name, tok.Value)
	case symbols["Star"]:
		return newToken(Wildcard, tok.Value)
	case symbols["Cast"], symbols["Operator"]:
		return newToken(Operator, tok.Value)
	default:
		return newToken(Punctuation, tok.Value)
	}
}

// Depth returns the number of parentheses sql opens but doesn't close. It is
// negative when sql closes more than it opens.
func Depth(sql string) int {
	tokens, err := lex(sql)
	if err != nil {
		return 0
	}

	depth := 0
	for _, tok := range tokens {
		switch {
		case tok.IsPunctuation("("):
			depth++
		case tok.IsPunctuation(")"):
			depth--
		}
	}
	return depth
}
