package utils_test

import (
	"testing"

	"github.com/pseudomuto/reformat-sql/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestIsQuoted(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "double quoted", input: `"table"`, expected: true},
		{name: "backticked", input: "`table`", expected: true},
		{name: "brackets are not quotes", input: "[table]", expected: false},
		{name: "escaped quote", input: `"a""b"`, expected: true},
		{name: "bare", input: "table", expected: false},
		{name: "qualified", input: `"db"."table"`, expected: false},
		{name: "mismatched", input: "`table\"", expected: false},
		{name: "single character", input: `"`, expected: false},
		{name: "empty", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.IsQuoted(tt.input))
		})
	}
}

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "double quoted", input: `"table"`, expected: "table"},
		{name: "backticked", input: "`table`", expected: "table"},
		{name: "brackets are not quotes", input: "[table]", expected: "[table]"},
		{name: "escaped quote", input: `"say ""hi"""`, expected: `say "hi"`},
		{name: "bare", input: "table", expected: "table"},
		{name: "qualified left alone", input: `"db"."table"`, expected: `"db"."table"`},
		{name: "empty quotes", input: `""`, expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.StripQuotes(tt.input))
		})
	}
}
