package utils

import "strings"

// quotePairs maps each identifier opening quote to its closing quote.
var quotePairs = map[byte]byte{
	'"': '"',
	'`': '`',
}

// IsQuoted checks if a string is a single quoted identifier, using double
// quotes or backticks, the quoting the lexer recognizes.
//
// Examples:
//   - `"table"` -> true
//   - "`table`" -> true
//   - "[table]" -> false
//   - "table" -> false
//   - `"db"."table"` -> false (qualified name, not a single identifier)
//   - "" -> false
func IsQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}

	closing, ok := quotePairs[s[0]]
	if !ok || s[len(s)-1] != closing {
		return false
	}

	inner := s[1 : len(s)-1]
	if closing == '"' {
		// doubled quotes are escapes
		inner = strings.ReplaceAll(inner, `""`, "")
	}
	return !strings.ContainsRune(inner, rune(closing))
}

// StripQuotes removes the quotes from an identifier if present. Doubled
// double quotes inside a quoted name are unescaped.
//
// Examples:
//   - `"table"` -> "table"
//   - "`table`" -> "table"
//   - `"say ""hi"""` -> `say "hi"`
//   - "table" -> "table"
//   - "" -> ""
func StripQuotes(s string) string {
	if !IsQuoted(s) {
		return s
	}

	inner := s[1 : len(s)-1]
	if s[0] == '"' {
		inner = strings.ReplaceAll(inner, `""`, `"`)
	}
	return inner
}
