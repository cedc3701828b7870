package parse

import "errors"

// ErrRedirectTarget is returned when a redirect operator has no target word
// after it.
var ErrRedirectTarget = errors.New("syntax error: redirect requires a target")

// extractRedirects removes redirect operators and their targets from tokens
// and returns the stripped sequence plus the stdout and stderr specs for
// the whole pipeline. When the same stream is redirected twice the last
// occurrence wins.
func extractRedirects(tokens []string) (stripped []string, out, errSpec RedirectSpec, err error) {
	for i := 0; i < len(tokens); i++ {
		var mode RedirectMode
		var toErr bool

		switch tokens[i] {
		case ">", "1>":
			mode = RedirectTruncate
		case ">>", "1>>":
			mode = RedirectAppend
		case "2>":
			mode, toErr = RedirectTruncate, true
		case "2>>":
			mode, toErr = RedirectAppend, true
		default:
			stripped = append(stripped, tokens[i])
			continue
		}

		if i+1 >= len(tokens) {
			return nil, RedirectSpec{}, RedirectSpec{}, ErrRedirectTarget
		}
		i++
		spec := RedirectSpec{Mode: mode, Path: tokens[i]}
		if toErr {
			errSpec = spec
		} else {
			out = spec
		}
	}

	return stripped, out, errSpec, nil
}
