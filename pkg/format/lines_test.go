package format_test

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/pseudomuto/reformat-sql/pkg/format"
	"github.com/pseudomuto/reformat-sql/pkg/parser"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "one statement per line",
			input:    "SELECT t.a, t.b FROM t\n  SELECT x.a FROM x\n",
			expected: "SELECT t.*\n        FROM t\n  SELECT x.a\n          FROM x\n",
		},
		{
			name:     "blank lines are kept",
			input:    "SELECT 1\n\n   \nSELECT 2\n",
			expected: "SELECT 1\n\n\nSELECT 2\n",
		},
		{
			name:     "missing final newline",
			input:    "SELECT 1",
			expected: "SELECT 1\n",
		},
		{
			name:     "crlf line endings",
			input:    "SELECT 1\r\nSELECT 2\r\n",
			expected: "SELECT 1\nSELECT 2\n",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "single empty line",
			input:    "\n",
			expected: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Lines(strings.NewReader(tt.input), &buf))
			require.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestLines_Error(t *testing.T) {
	var buf bytes.Buffer
	err := Lines(strings.NewReader("SELECT 1\nSELECT (a\nSELECT 3\n"), &buf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")

	// earlier lines were already written
	require.Equal(t, "SELECT 1\n", buf.String())
}

func TestLines_Options(t *testing.T) {
	var buf bytes.Buffer
	formatter := New(FormatterOptions{IndentSize: 4})
	require.NoError(t, formatter.Lines(strings.NewReader("SELECT t.a, t.b FROM t\n"), &buf))
	require.Equal(t, "SELECT t.a,\n        t.b\n        FROM t\n", buf.String())
}

func TestReformat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "rows of a statement are joined",
			input:    "SELECT t.a,\n  t.b\nFROM t\nWHERE t.a = 1\n  AND t.b = 2\n",
			expected: "SELECT t.*\n        FROM t\n    WHERE t.a = 1\n    AND t.b = 2\n",
		},
		{
			name:     "consecutive statements stay apart",
			input:    "SELECT 1\nSELECT 2\n",
			expected: "SELECT 1\nSELECT 2\n",
		},
		{
			name:     "blank lines end a statement",
			input:    "SELECT 1\n\nFROM t\n",
			expected: "SELECT 1\n\n        FROM t\n",
		},
		{
			name:     "open parentheses continue",
			input:    "SELECT max(\nt.a) FROM t\n",
			expected: "SELECT max( t.a)\n        FROM t\n",
		},
		{
			name:     "base indent comes from the first row",
			input:    "  SELECT *\nFROM t\n",
			expected: "  SELECT *\n          FROM t\n",
		},
		{
			name:     "crlf line endings",
			input:    "SELECT t.a,\r\n t.b FROM t\r\n",
			expected: "SELECT t.*\n        FROM t\n",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Reformat(strings.NewReader(tt.input), &buf))
			require.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestReformat_OwnOutput(t *testing.T) {
	input := "SELECT u.id, u.name, o.total FROM users u INNER JOIN orders o ON u.id = o.user_id " +
		"WHERE (u.active AND (o.total > 100 OR o.rush)) ORDER BY o.total DESC, u.name LIMIT 10\n" +
		"\n" +
		"  SELECT p.id, CASE WHEN p.stock = 0 THEN 'out' ELSE 'ok' END AS level FROM products p\n" +
		"SELECT 1; SELECT 2\n"

	for _, opts := range []FormatterOptions{Defaults, {IndentSize: 2}} {
		formatter := New(opts)

		var first bytes.Buffer
		require.NoError(t, formatter.Lines(strings.NewReader(input), &first))

		var second bytes.Buffer
		require.NoError(t, formatter.Reformat(bytes.NewReader(first.Bytes()), &second))
		require.Equal(t, first.String(), second.String())
	}
}

func TestReformat_Error(t *testing.T) {
	var buf bytes.Buffer
	err := Reformat(strings.NewReader("SELECT 1\n\nSELECT CASE WHEN a\n  THEN b\nFROM t\n"), &buf)
	require.ErrorIs(t, err, parser.ErrUnterminatedCase)
	require.Contains(t, err.Error(), "line 3")

	// earlier statements were already written
	require.Equal(t, "SELECT 1\n\n", buf.String())
}
