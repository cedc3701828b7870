// Package parse turns raw input lines into command trees.
//
// A line moves through three passes: the lexer splits it into quote-aware
// words, the redirect pass strips redirect operators into per-stream specs,
// and the pipe pass recursively splits the remainder into stages, resolving
// each stage to a builtin, an executable found on PATH, or an invalid
// command. The resulting tree is immutable and owns no OS resources.
package parse

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Environment variables the parser consumes.
const (
	EnvHome = "HOME"
	EnvPath = "PATH"
)

var (
	// ErrPathNotSet is returned when command resolution needs PATH and the
	// environment doesn't provide it.
	ErrPathNotSet = errors.New("PATH not set")

	// ErrEmptyStage is returned when a pipe operator has no command on one
	// of its sides.
	ErrEmptyStage = errors.New("syntax error near unexpected token `|'")
)

// Parser resolves input lines against a filesystem and an environment.
// The zero value is not usable; call New.
type Parser struct {
	fs        afero.Fs
	lookupEnv func(key string) (string, bool)
}

// Option configures a Parser.
type Option func(*Parser)

// WithFs overrides the filesystem used for PATH lookups.
func WithFs(fs afero.Fs) Option {
	return func(p *Parser) { p.fs = fs }
}

// WithLookupEnv overrides the environment used for HOME and PATH.
func WithLookupEnv(lookup func(key string) (string, bool)) Option {
	return func(p *Parser) { p.lookupEnv = lookup }
}

// New creates a Parser backed by the real filesystem and process
// environment unless options say otherwise.
func New(opts ...Option) *Parser {
	p := &Parser{
		fs:        afero.NewOsFs(),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts one input line into a command tree. A blank line yields
// (nil, nil). Parsing is stateless; the same line always yields the same
// tree.
func (p *Parser) Parse(line string) (Command, error) {
	tokens, err := p.lex(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	tokens, out, errSpec, err := extractRedirects(tokens)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	cmd, err := p.splitPipes(tokens)
	if err != nil {
		return nil, err
	}

	if out.IsSet() || errSpec.IsSet() {
		cmd = &Redirect{Out: out, Err: errSpec, Cmd: cmd}
	}
	return cmd, nil
}

// splitPipes splits tokens at the rightmost pipe so that pipelines come out
// left-deep, matching left-to-right execution order.
func (p *Parser) splitPipes(tokens []string) (Command, error) {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i] != "|" {
			continue
		}
		if i == 0 || i == len(tokens)-1 {
			return nil, ErrEmptyStage
		}
		left, err := p.splitPipes(tokens[:i])
		if err != nil {
			return nil, err
		}
		right, err := p.resolve(tokens[i+1:])
		if err != nil {
			return nil, err
		}
		return &Pipe{Left: left, Right: right}, nil
	}
	return p.resolve(tokens)
}

// resolve classifies one stage. The first token is the command name, the
// rest are its arguments.
func (p *Parser) resolve(tokens []string) (Command, error) {
	name, args := tokens[0], tokens[1:]

	switch name {
	case "exit":
		return &Exit{}, nil
	case "echo":
		return &Echo{Args: args}, nil
	case "type":
		targets := make([]Command, 0, len(args))
		for _, arg := range args {
			target, err := p.resolve([]string{arg})
			if err != nil {
				return nil, err
			}
			targets = append(targets, target)
		}
		return &Type{Targets: targets}, nil
	case "pwd":
		return &Pwd{}, nil
	case "cd":
		return &Cd{Args: args}, nil
	}

	path, err := p.lookPath(name)
	switch {
	case err == ErrPathNotSet:
		return nil, err
	case err != nil:
		return &Invalid{Name: name}, nil
	}
	return &Executable{Name: name, Path: path, Args: args}, nil
}

// errNotFound is the internal miss result of lookPath; callers map it to an
// Invalid node.
var errNotFound = errors.New("executable file not found in PATH")

// lookPath searches the PATH directories, in order, for a regular file
// whose name exactly equals file. No partial matches and no extension
// inference.
func (p *Parser) lookPath(file string) (string, error) {
	path, ok := p.lookupEnv(EnvPath)
	if !ok {
		return "", ErrPathNotSet
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means ".".
			dir = "."
		}
		full := filepath.Join(dir, file)
		if fi, err := p.fs.Stat(full); err == nil && fi.Mode().IsRegular() {
			return full, nil
		}
	}
	return "", errNotFound
}
