package shell

import (
	"errors"
	"testing"
)

func words(vals ...string) []Token {
	toks := make([]Token, len(vals))
	for i, v := range vals {
		toks[i] = Token{Kind: Word, Value: v}
	}
	return toks
}

func TestLexer_Tokenize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []Token
		expectedErr error
	}{
		{
			name:     "simple command",
			input:    "echo hello",
			expected: words("echo", "hello"),
		},
		{
			name:     "single quoted string",
			input:    "echo 'hello   world'",
			expected: words("echo", "hello   world"),
		},
		{
			name:     "double quoted string",
			input:    `echo "hello world"`,
			expected: words("echo", "hello world"),
		},
		{
			name:     "mixed quoting concatenation",
			input:    `echo a"b"c'd'e`,
			expected: words("echo", "abcde"),
		},
		{
			name:     "escaped characters outside quotes",
			input:    `echo hello\ world`,
			expected: words("echo", "hello world"),
		},
		{
			name:     "backslash escapes in double quotes",
			input:    `echo "a\"b\\c\$d"`,
			expected: words("echo", `a"b\c$d`),
		},
		{
			name:     "backslash before non-escapable char in double quotes is literal",
			input:    `echo "a\nb"`,
			expected: words("echo", `a\nb`),
		},
		{
			name:     "single quotes preserve everything literally",
			input:    `echo 'hello\nworld'`,
			expected: words("echo", `hello\nworld`),
		},
		{
			name:     "trailing backslash emits nothing",
			input:    `echo hello\`,
			expected: words("echo", "hello"),
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "redirection operator stdout overwrite",
			input:    "ls -l > out.txt",
			expected: []Token{{Word, "ls"}, {Word, "-l"}, {Operator, ">"}, {Word, "out.txt"}},
		},
		{
			name:     "redirection operator with explicit fd and append",
			input:    "cmd 1>> out.txt 2> err.txt",
			expected: []Token{{Word, "cmd"}, {Operator, "1>>"}, {Word, "out.txt"}, {Operator, "2>"}, {Word, "err.txt"}},
		},
		{
			name:     "pipe operator",
			input:    "echo hello | wc -c",
			expected: []Token{{Word, "echo"}, {Word, "hello"}, {Operator, "|"}, {Word, "wc"}, {Word, "-c"}},
		},
		{
			name:     "operator breaks a word mid-token",
			input:    "echo hi>out.txt",
			expected: []Token{{Word, "echo"}, {Word, "hi"}, {Operator, ">"}, {Word, "out.txt"}},
		},
		{
			name:        "unterminated single quote",
			input:       "echo 'hello",
			expectedErr: ErrUnterminatedQuote,
		},
		{
			name:        "unterminated double quote",
			input:       `echo "hello`,
			expectedErr: ErrUnterminatedQuote,
		},
		{
			name:     "empty quotes produce no token",
			input:    `echo "" ''`,
			expected: words("echo"),
		},
	}

	lexer := NewDefaultLexer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lexer.Tokenize(tt.input)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !equalTokens(got, tt.expected) {
				t.Fatalf("input %q\nexpected: %#v\ngot:      %#v", tt.input, tt.expected, got)
			}
		})
	}
}

func equalTokens(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
