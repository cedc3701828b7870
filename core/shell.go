// Package core implements the interactive shell: the readline prompt loop
// that feeds input lines through the parser and into the interpreter.
package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"josephlewis.net/gsh/core/config"
	"josephlewis.net/gsh/core/interp"
	"josephlewis.net/gsh/core/logger"
	"josephlewis.net/gsh/core/parse"
)

const DefaultPrompt = `\w\$ `

var promptColor = color.New(color.FgGreen)

// Shell ties the parser and interpreter to a line-editing front end.
type Shell struct {
	Parser *parse.Parser
	Interp *interp.Interp

	config     *config.Configuration
	sessionLog *logger.Logger
	toClose    listCloser
}

// NewShell creates a shell from the configuration. Call Close when done.
func NewShell(configuration *config.Configuration) (*Shell, error) {
	shell := &Shell{
		Parser: parse.New(),
		Interp: interp.New(),
		config: configuration,
	}

	if configuration.LogFile != "" {
		fd, err := os.OpenFile(configuration.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, err
		}
		shell.sessionLog = logger.New(fd)
		shell.toClose = append(shell.toClose, fd)
	}

	return shell, nil
}

// Prompt renders the prompt template against the current state.
func (s *Shell) Prompt() string {
	prompt := s.config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	pwd, _ := os.Getwd()
	if home, ok := os.LookupEnv(parse.EnvHome); ok && home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}

	prompt = strings.ReplaceAll(prompt, `\w`, pwd)
	prompt = strings.ReplaceAll(prompt, `\$`, "$")

	return promptColor.Sprint(prompt)
}

// Run reads lines until EOF or an exit command.
func (s *Shell) Run() error {
	cfg := &readline.Config{
		HistoryFile:  s.config.HistoryFile,
		AutoComplete: builtinCompleter(),
	}
	if err := cfg.Init(); err != nil {
		return err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // Drop the line, reprint the prompt.

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue

		case len(strings.TrimSpace(line)) == 0:
			continue
		}

		if err := s.Eval(line); err == interp.ErrExit {
			return nil
		}
	}
}

// Eval parses and executes one input line against inherited stdio. It
// returns interp.ErrExit when the line asks the shell to quit; every other
// failure is reported to the user here.
func (s *Shell) Eval(line string) error {
	cmd, err := s.Parser.Parse(line)
	if err != nil {
		s.reportError(err)
		return nil
	}
	if cmd == nil {
		return nil
	}

	if err := s.sessionLog.Command(line); err != nil {
		log.Printf("session log: %v", err)
	}

	err = s.Interp.Run(cmd, os.Stdin, os.Stdout, os.Stderr)
	if err == interp.ErrExit {
		return err
	}
	if err != nil {
		s.reportError(err)
	}
	return nil
}

// reportError surfaces a parse or engine error to the user. In strict
// mode the legacy-fatal class aborts the whole shell instead of
// reprinting the prompt.
func (s *Shell) reportError(err error) {
	if s.config.StrictErrors && isLegacyFatal(err) {
		log.Fatalf("gsh: %v", err)
	}
	fmt.Fprintf(os.Stderr, "gsh: %v\n", err)
}

func isLegacyFatal(err error) bool {
	return errors.Is(err, parse.ErrHomeNotSet) ||
		errors.Is(err, parse.ErrPathNotSet) ||
		errors.Is(err, parse.ErrRedirectTarget)
}

func (s *Shell) Close() error {
	return s.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
