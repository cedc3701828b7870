package parse

import (
	"fmt"
	"strings"
)

// RedirectMode describes how a redirect target file is opened.
type RedirectMode int

const (
	// RedirectNone means the stream is left untouched.
	RedirectNone RedirectMode = iota
	// RedirectTruncate opens the target for writing, replacing its contents.
	RedirectTruncate
	// RedirectAppend opens the target for writing at the end.
	RedirectAppend
)

// RedirectSpec is a single stream's redirect target for a whole pipeline.
// The zero value means "no redirect".
type RedirectSpec struct {
	Mode RedirectMode
	Path string
}

// IsSet reports whether the spec names a target file.
func (r RedirectSpec) IsSet() bool {
	return r.Mode != RedirectNone
}

// Command is one node of a parsed command tree. The set of implementations
// is closed; consumers switch exhaustively over the concrete types.
type Command interface {
	command()
}

// Exit terminates the shell.
type Exit struct{}

// Echo prints its arguments space-joined.
type Echo struct {
	Args []string
}

// Type classifies each of its targets. Targets are themselves resolved
// commands, used only to report what they would be, never executed.
type Type struct {
	Targets []Command
}

// Pwd prints the working directory.
type Pwd struct{}

// Cd changes the working directory. Args are validated at execution time.
type Cd struct {
	Args []string
}

// Executable is an external command resolved through PATH. Path names an
// existing regular file at parse time; Name is the word the user typed.
type Executable struct {
	Name string
	Path string
	Args []string
}

// Invalid is a command name that matched neither a builtin nor PATH.
type Invalid struct {
	Name string
}

// Pipe connects Left's stdout to Right's stdin. Pipelines are left-deep:
// "a | b | c" parses to Pipe(Pipe(a, b), c).
type Pipe struct {
	Left  Command
	Right Command
}

// Redirect binds the pipeline's stdout and stderr to files. When present it
// is always the root of the tree; redirects apply to the whole pipeline.
type Redirect struct {
	Out RedirectSpec
	Err RedirectSpec
	Cmd Command
}

func (*Exit) command()       {}
func (*Echo) command()       {}
func (*Type) command()       {}
func (*Pwd) command()        {}
func (*Cd) command()         {}
func (*Executable) command() {}
func (*Invalid) command()    {}
func (*Pipe) command()       {}
func (*Redirect) command()   {}

// BuiltinName returns the name of the builtin cmd implements, or "" if cmd
// is not a builtin.
func BuiltinName(cmd Command) string {
	switch cmd.(type) {
	case *Exit:
		return "exit"
	case *Echo:
		return "echo"
	case *Type:
		return "type"
	case *Pwd:
		return "pwd"
	case *Cd:
		return "cd"
	default:
		return ""
	}
}

// Render formats a command tree one node per line for debugging and golden
// tests.
func Render(cmd Command) string {
	var sb strings.Builder
	render(&sb, cmd, 0)
	return sb.String()
}

func render(sb *strings.Builder, cmd Command, depth int) {
	indent := strings.Repeat("  ", depth)
	switch c := cmd.(type) {
	case *Exit:
		fmt.Fprintf(sb, "%sexit\n", indent)
	case *Echo:
		fmt.Fprintf(sb, "%secho %q\n", indent, c.Args)
	case *Type:
		fmt.Fprintf(sb, "%stype\n", indent)
		for _, t := range c.Targets {
			render(sb, t, depth+1)
		}
	case *Pwd:
		fmt.Fprintf(sb, "%spwd\n", indent)
	case *Cd:
		fmt.Fprintf(sb, "%scd %q\n", indent, c.Args)
	case *Executable:
		fmt.Fprintf(sb, "%sexec %s (%s) %q\n", indent, c.Name, c.Path, c.Args)
	case *Invalid:
		fmt.Fprintf(sb, "%sinvalid %s\n", indent, c.Name)
	case *Pipe:
		fmt.Fprintf(sb, "%spipe\n", indent)
		render(sb, c.Left, depth+1)
		render(sb, c.Right, depth+1)
	case *Redirect:
		fmt.Fprintf(sb, "%sredirect out=%s err=%s\n", indent, renderSpec(c.Out), renderSpec(c.Err))
		render(sb, c.Cmd, depth+1)
	}
}

func renderSpec(spec RedirectSpec) string {
	switch spec.Mode {
	case RedirectTruncate:
		return fmt.Sprintf("truncate(%s)", spec.Path)
	case RedirectAppend:
		return fmt.Sprintf("append(%s)", spec.Path)
	default:
		return "none"
	}
}
