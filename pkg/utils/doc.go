// Package utils provides small helpers shared by the parser and formatter.
//
// # Identifier Utilities (identifier.go)
//
// SQL identifiers may be quoted with double quotes (standard SQL and
// PostgreSQL), backticks (MySQL) or brackets (SQL Server). The helpers here
// recognise and remove that quoting so names can be compared regardless of
// how they were written:
//
//	utils.IsQuoted(`"accounts"`)    // true
//	utils.StripQuotes(`"accounts"`) // accounts
//	utils.StripQuotes("accounts")   // accounts
//
// Qualified names such as "db"."table" are not a single quoted identifier and
// are returned unchanged by StripQuotes; callers split on "." first.
package utils
