// Package interp executes parsed command trees against the OS.
//
// Builtins run in-process on the calling goroutine; external commands run
// as child processes with their standard streams bound to the handles the
// engine was given. Pipelines start both legs before waiting on either so
// a producer can never block forever on a full pipe buffer.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/afero"
	"josephlewis.net/gsh/core/parse"
)

// ErrExit is returned when the tree contains an exit command. The caller
// owns process shutdown; the engine never calls os.Exit itself.
var ErrExit = errors.New("exit")

// Interp executes command trees. The working directory it mutates through
// cd is the real process working directory, which child processes inherit.
type Interp struct {
	fs        afero.Fs
	lookupEnv func(key string) (string, bool)
}

// Option configures an Interp.
type Option func(*Interp)

// WithFs overrides the filesystem used for redirect targets and cd checks.
func WithFs(fs afero.Fs) Option {
	return func(ip *Interp) { ip.fs = fs }
}

// WithLookupEnv overrides the environment used for the cd home fallback.
func WithLookupEnv(lookup func(key string) (string, bool)) Option {
	return func(ip *Interp) { ip.lookupEnv = lookup }
}

// New creates an Interp backed by the real filesystem and process
// environment unless options say otherwise.
func New(opts ...Option) *Interp {
	ip := &Interp{
		fs:        afero.NewOsFs(),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(ip)
	}
	return ip
}

// Run executes cmd with the given standard streams. It returns ErrExit
// when the user asked the shell to quit; any other error is a condition
// the engine could not report on stderr itself.
func (ip *Interp) Run(cmd parse.Command, stdin io.Reader, stdout, stderr io.Writer) error {
	switch c := cmd.(type) {
	case nil:
		return nil

	case *parse.Exit:
		return ErrExit

	case *parse.Echo:
		_, err := fmt.Fprintln(stdout, strings.Join(c.Args, " "))
		return err

	case *parse.Type:
		for _, target := range c.Targets {
			if _, err := fmt.Fprintln(stdout, typeLine(target)); err != nil {
				return err
			}
		}
		return nil

	case *parse.Pwd:
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, wd)
		return err

	case *parse.Cd:
		return ip.runCd(c, stderr)

	case *parse.Executable:
		return runExecutable(c, stdin, stdout, stderr)

	case *parse.Invalid:
		_, err := fmt.Fprintf(stderr, "%s: command not found\n", c.Name)
		return err

	case *parse.Pipe:
		return ip.runPipe(c, stdin, stdout, stderr)

	case *parse.Redirect:
		return ip.runRedirect(c, stdin, stdout, stderr)

	default:
		return fmt.Errorf("unknown command type %T", cmd)
	}
}

// typeLine renders one classification line for the type builtin.
func typeLine(cmd parse.Command) string {
	if name := parse.BuiltinName(cmd); name != "" {
		return name + " is a shell builtin"
	}
	switch c := cmd.(type) {
	case *parse.Executable:
		return fmt.Sprintf("%s is %s", c.Name, c.Path)
	case *parse.Invalid:
		return fmt.Sprintf("%s: not found", c.Name)
	default:
		return fmt.Sprintf("unrecognized command %T", cmd)
	}
}

func (ip *Interp) runCd(c *parse.Cd, stderr io.Writer) error {
	var target string
	switch {
	case len(c.Args) > 1:
		fmt.Fprintln(stderr, "cd: too many arguments")
		return nil
	case len(c.Args) == 1:
		target = c.Args[0]
	default:
		home, ok := ip.lookupEnv(parse.EnvHome)
		if !ok {
			return parse.ErrHomeNotSet
		}
		target = home
	}

	fi, err := ip.fs.Stat(target)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintf(stderr, "cd: %s: No such file or directory\n", target)
	case err != nil:
		fmt.Fprintf(stderr, "cd: %s: %v\n", target, err)
	case !fi.IsDir():
		fmt.Fprintf(stderr, "cd: %s: Not a directory\n", target)
	default:
		if err := os.Chdir(target); err != nil {
			fmt.Fprintf(stderr, "cd: %s: %v\n", target, err)
		}
	}
	return nil
}

// runExecutable spawns the resolved file and waits for it. A non-zero exit
// status is not reported back to the prompt; a failure to start is.
func runExecutable(c *parse.Executable, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		fmt.Fprintf(stderr, "%s: %v\n", c.Name, err)
	}
	return nil
}

// runPipe wires Left's stdout to Right's stdin through one OS pipe. Both
// legs must be running before either is waited on: if Right were awaited
// only after Left finished, a Left that outgrows the pipe buffer would
// block forever with no reader attached.
func (ip *Interp) runPipe(p *parse.Pipe, stdin io.Reader, stdout, stderr io.Writer) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return err
	}

	leftDone := make(chan error, 1)
	go func() {
		err := ip.Run(p.Left, stdin, pw, stderr)
		// Closing the write end is what lets the right leg see EOF.
		pw.Close()
		leftDone <- err
	}()

	rightErr := ip.Run(p.Right, pr, stdout, stderr)
	// Drop the read end first: a left leg still writing after its reader
	// is gone should see a broken pipe, not block forever.
	pr.Close()
	leftErr := <-leftDone

	if errors.Is(leftErr, ErrExit) || errors.Is(rightErr, ErrExit) {
		return ErrExit
	}
	if leftErr != nil {
		return leftErr
	}
	return rightErr
}

// runRedirect opens the target files and runs the inner tree with them as
// its stdout/stderr. Since a Redirect node is always the tree root, a
// trailing redirect on a pipeline binds the last stage's stdout and every
// stage's stderr.
func (ip *Interp) runRedirect(r *parse.Redirect, stdin io.Reader, stdout, stderr io.Writer) error {
	out, closeOut, err := ip.openRedirect(r.Out, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	errOut, closeErr, err := ip.openRedirect(r.Err, stderr)
	if err != nil {
		return err
	}
	defer closeErr()

	return ip.Run(r.Cmd, stdin, out, errOut)
}

// openRedirect resolves one redirect spec to a writer. The returned
// cleanup closes the opened file, or does nothing when the spec is unset
// and the caller's handle passes through.
func (ip *Interp) openRedirect(spec parse.RedirectSpec, fallback io.Writer) (io.Writer, func() error, error) {
	if !spec.IsSet() {
		return fallback, func() error { return nil }, nil
	}

	flag := os.O_CREATE | os.O_WRONLY
	if spec.Mode == parse.RedirectAppend {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	f, err := ip.fs.OpenFile(spec.Path, flag, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
