package parse

import (
	"errors"
	"strings"
)

// ErrHomeNotSet is returned when tilde expansion needs HOME and the
// environment doesn't provide it.
var ErrHomeNotSet = errors.New("HOME not set")

type quoteState int

const (
	unquoted quoteState = iota
	singleQuoted
	doubleQuoted
)

// lex splits line into shell words. Quoting rules:
//
//   - Unquoted text splits on ASCII whitespace. A backslash makes the next
//     character literal. A tilde expands to HOME, even mid-word.
//   - Single quotes preserve everything, including backslashes.
//   - Double quotes preserve whitespace; a backslash escapes only `"` and
//     `\`, otherwise it is kept as-is.
//
// An unterminated quote at end of line is accepted; the open word is
// flushed as typed. Pipe and redirect operators come out as ordinary
// tokens for the later passes to pick up.
func (p *Parser) lex(line string) ([]string, error) {
	home, ok := p.lookupEnv(EnvHome)
	if !ok {
		return nil, ErrHomeNotSet
	}

	var tokens []string
	var word strings.Builder
	state := unquoted
	escaped := false

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range strings.TrimSpace(line) {
		switch state {
		case unquoted:
			if escaped {
				word.WriteRune(r)
				escaped = false
				continue
			}
			if r < 128 && isASCIISpace(byte(r)) {
				flush()
				continue
			}
			switch r {
			case '\'':
				state = singleQuoted
			case '"':
				state = doubleQuoted
			case '~':
				word.WriteString(home)
			case '\\':
				escaped = true
			default:
				word.WriteRune(r)
			}

		case singleQuoted:
			if r == '\'' {
				state = unquoted
			} else {
				word.WriteRune(r)
			}

		case doubleQuoted:
			if escaped {
				if r != '"' && r != '\\' {
					// The backslash escaped nothing; keep it.
					word.WriteRune('\\')
				}
				word.WriteRune(r)
				escaped = false
				continue
			}
			switch r {
			case '"':
				state = unquoted
			case '\\':
				escaped = true
			default:
				word.WriteRune(r)
			}
		}
	}
	flush()

	return tokens, nil
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
