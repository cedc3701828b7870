package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLex(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		expected []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \t ", nil},
		{"plain words", "echo hello world", []string{"echo", "hello", "world"}},
		{"runs of whitespace collapse", "a   b\t\tc", []string{"a", "b", "c"}},
		{"leading and trailing space trimmed", "  ls  ", []string{"ls"}},

		// Single quotes take everything literally.
		{"single quotes keep spaces", "echo 'a b'", []string{"echo", "a b"}},
		{"single quotes keep backslashes", `echo 'a\nb'`, []string{"echo", `a\nb`}},
		{"adjacent quoted parts join", "echo 'a''b'", []string{"echo", "ab"}},

		// Double quotes escape only `"` and `\`.
		{"double quote escaped quote", `echo "c\"d"`, []string{"echo", `c"d`}},
		{"double quote escaped backslash", `echo "a\\b"`, []string{"echo", `a\b`}},
		{"double quote keeps other backslashes", `echo "a\nb"`, []string{"echo", `a\nb`}},
		{"double quotes keep spaces", `echo "a b"`, []string{"echo", "a b"}},

		// Unquoted escapes make the next character literal.
		{"escaped space", `echo a\ b`, []string{"echo", "a b"}},
		{"escaped quote", `echo \'a`, []string{"echo", "'a"}},
		{"escaped tilde does not expand", `echo \~x`, []string{"echo", "~x"}},
		{"trailing backslash dropped", `echo a\`, []string{"echo", "a"}},

		// Tilde expansion happens anywhere in unquoted text.
		{"bare tilde", "cd ~", []string{"cd", "/home/u"}},
		{"tilde mid token", "echo ~x", []string{"echo", "/home/ux"}},
		{"tilde inside quotes is literal", "echo '~' \"~\"", []string{"echo", "~", "~"}},

		// Unterminated quotes are accepted; the open word is flushed.
		{"unterminated single quote", "echo 'abc", []string{"echo", "abc"}},
		{"unterminated double quote", `echo "abc`, []string{"echo", "abc"}},

		// Operators come through as ordinary tokens for the later passes.
		{"operators are tokens", "a | b > c 2>> d", []string{"a", "|", "b", ">", "c", "2>>", "d"}},
	}

	p := New(WithLookupEnv(testEnv(map[string]string{EnvHome: "/home/u"})))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := p.lex(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tokens)
		})
	}
}

func TestLexCombined(t *testing.T) {
	p := New(WithLookupEnv(testEnv(map[string]string{EnvHome: "/home/u"})))

	tokens, err := p.lex(`echo 'a b' "c\"d" ~x`)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "a b", `c"d`, "/home/ux"}, tokens)
}

func TestLexMissingHome(t *testing.T) {
	p := New(WithLookupEnv(testEnv(nil)))

	_, err := p.lex("echo hello")
	assert.ErrorIs(t, err, ErrHomeNotSet)
}
