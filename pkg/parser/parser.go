package parser

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

type (
	// SQL is the result of parsing a chunk of SQL text.
	SQL struct {
		Statements []*Statement
	}

	// Statement is a single SQL statement as a token tree. Joining the values
	// of its top-level tokens reproduces the source text exactly, including
	// leading indentation, the terminating semicolon and any trailing comment.
	Statement struct {
		Tokens []*Token
	}
)

// String returns the statement's source text.
func (s *Statement) String() string {
	var sb strings.Builder
	for _, tok := range s.Tokens {
		sb.WriteString(tok.Value)
	}
	return sb.String()
}

// Indent returns the number of space characters at the start of the
// statement. Tabs and other whitespace end the count.
func (s *Statement) Indent() int {
	n := 0
	for _, tok := range s.Tokens {
		if !tok.IsWhitespace() {
			return n
		}

		for _, r := range tok.Value {
			if r != ' ' {
				return n
			}
			n++
		}
	}
	return n
}

// Parse reads all of reader and parses the SQL it contains.
//
// Example usage:
//
//	file, err := os.Open("query.sql")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	sql, err := parser.Parse(file)
//	if err != nil {
//		log.Fatalf("Parse error: %v", err)
//	}
//
//	for _, stmt := range sql.Statements {
//		fmt.Printf("statement at indent %d: %s\n", stmt.Indent(), stmt)
//	}
//
// Returns an error if the reader cannot be read or contains malformed SQL.
func Parse(reader io.Reader) (*SQL, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SQL")
	}

	return ParseString(string(data))
}

// ParseString splits sql into statements and groups each one into a token
// tree. Whitespace-only input yields no statements.
//
// Example usage:
//
//	sql, err := parser.ParseString("SELECT a.id, a.name FROM accounts a WHERE a.id = %s")
//	if err != nil {
//		log.Fatalf("Parse error: %v", err)
//	}
//
//	stmt := sql.Statements[0]
//	fmt.Println(stmt.Tokens[2].Kind) // IdentifierList
//
// Returns an error for unbalanced parentheses or a CASE without an END.
func ParseString(sql string) (*SQL, error) {
	tokens, err := lex(sql)
	if err != nil {
		return nil, err
	}

	result := &SQL{}
	for _, raw := range split(tokens) {
		grouped, err := group(raw)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse SQL")
		}

		result.Statements = append(result.Statements, &Statement{Tokens: grouped})
	}

	return result, nil
}

// split cuts a flat token stream into statements at top-level semicolons.
// Whitespace and comments following a semicolon stay with the statement it
// ends, up to and including the last newline. Statements made up only of
// whitespace are dropped.
func split(tokens []*Token) [][]*Token {
	var (
		stmts   [][]*Token
		current []*Token
		depth   int
		closed  bool
	)

	flush := func() {
		if !whitespaceOnly(current) {
			stmts = append(stmts, current)
		}
		current = nil
	}

	for _, tok := range tokens {
		if closed && !tok.IsWhitespace() && tok.Kind != Comment {
			flush()
			closed = false
		}

		// the indentation of the next line belongs to the next statement
		if closed && tok.IsWhitespace() {
			if i := strings.LastIndexByte(tok.Value, '\n'); i >= 0 && i < len(tok.Value)-1 {
				current = append(current, newToken(Whitespace, tok.Value[:i+1]))
				flush()
				closed = false
				current = append(current, newToken(Whitespace, tok.Value[i+1:]))
				continue
			}
		}

		current = append(current, tok)
		switch {
		case tok.IsPunctuation("("):
			depth++
		case tok.IsPunctuation(")"):
			depth--
		case tok.IsPunctuation(";") && depth <= 0:
			closed = true
		}
	}

	flush()
	return stmts
}

func whitespaceOnly(tokens []*Token) bool {
	for _, tok := range tokens {
		if !tok.IsWhitespace() {
			return false
		}
	}
	return true
}
