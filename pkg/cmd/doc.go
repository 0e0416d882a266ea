// Package cmd provides the command-line interface for reformat-sql.
//
// The root command is a line filter. It reads SQL from a file or standard
// input, formats every line as its own piece of SQL and writes the result to a
// file or standard output:
//
//	reformat-sql [infile] [outfile]
//
// Either argument may be "-" to name the standard stream explicitly.
//
// # Commands
//
//   - fmt: format SQL files, directories or glob patterns, printing the
//     result, listing changed files, showing a diff or rewriting in place
//
// # Global Options
//
//   - --config, -c: config file (env REFORMAT_SQL_CONFIG, default .reformat-sql.yaml)
//   - --help, -h: display help
//   - --version, -v: display version information
//
// Commands are provided to the fx graph in the "commands" value group and
// the application is started from an fx start hook (see Run). The process
// exit code comes from ExitCode.
package cmd
