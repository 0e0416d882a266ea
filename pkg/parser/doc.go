// Package parser tokenizes SQL text into a tree of classified tokens.
//
// Parsing is deliberately shallow. The lexer (built on
// github.com/alecthomas/participle/v2/lexer) splits text into leaf tokens
// such as keywords, names, literals and punctuation; a series of grouping
// passes then folds those into composite tokens: identifiers ("t.col AS c"),
// identifier lists, parenthesised groups, function calls, CASE expressions,
// WHERE clauses, comparisons and arithmetic. No attempt is made to validate
// the statement against a SQL grammar, so any dialect that looks roughly like
// SQL can be parsed.
//
// Every token keeps its exact source text, and a composite token's value is
// the concatenation of its children, so joining the top-level tokens of a
// statement reproduces the input byte for byte.
//
// Basic usage:
//
//	sql, err := parser.ParseString("SELECT a.id, a.name FROM accounts a; SELECT 1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, stmt := range sql.Statements {
//		for _, tok := range stmt.Tokens {
//			fmt.Printf("%-14s %q\n", tok.Kind, tok.Value)
//		}
//	}
//
// Characters the lexer has no rule for, like "@" or a lone quote, are kept as
// punctuation. Parsing fails for unbalanced parentheses
// (ErrUnbalancedParenthesis) and for a CASE without a matching END
// (ErrUnterminatedCase).
package parser
