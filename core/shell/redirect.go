package shell

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// RedirTarget names a file receiving one of the standard output streams.
type RedirTarget struct {
	Path   string
	Append bool
}

// RedirectionPlan holds the optional redirection targets extracted from a
// token sequence. A nil target leaves the stream on the terminal.
type RedirectionPlan struct {
	Stdout *RedirTarget
	Stderr *RedirTarget
}

// redirOperators maps each redirection operator token to the stream it
// targets and whether it appends.
var redirOperators = map[string]struct {
	stderr bool
	append bool
}{
	">":   {stderr: false, append: false},
	"1>":  {stderr: false, append: false},
	">>":  {stderr: false, append: true},
	"1>>": {stderr: false, append: true},
	"2>":  {stderr: true, append: false},
	"2>>": {stderr: true, append: true},
}

// ParseRedirections scans tokens for redirection operators, consuming each
// operator and its target path. It returns the residual argv, in order, and
// the plan. A later operator on the same stream overrides an earlier one. An
// operator with no following token is left in the argv unchanged.
func ParseRedirections(tokens []string) ([]string, RedirectionPlan) {
	var argv []string
	var plan RedirectionPlan

	for i := 0; i < len(tokens); i++ {
		op, ok := redirOperators[tokens[i]]
		if !ok || i+1 >= len(tokens) {
			argv = append(argv, tokens[i])
			continue
		}

		target := &RedirTarget{Path: tokens[i+1], Append: op.append}
		if op.stderr {
			plan.Stderr = target
		} else {
			plan.Stdout = target
		}
		i++
	}

	return argv, plan
}

// CommandIO carries the standard streams of one command invocation.
type CommandIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	toClose listCloser
}

// Close releases any files opened for redirection.
func (c *CommandIO) Close() error {
	return c.toClose.Close()
}

// openTarget opens a redirection target with the shell's file creation
// semantics: 0644, truncate or append.
func openTarget(fsys afero.Fs, target *RedirTarget) (afero.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if target.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return fsys.OpenFile(target.Path, flags, 0644)
}

// Open applies the plan on top of the given default streams. The returned
// CommandIO must be closed after the command completes.
func (p RedirectionPlan) Open(fsys afero.Fs, defaults CommandIO) (*CommandIO, error) {
	out := &CommandIO{
		Stdin:  defaults.Stdin,
		Stdout: defaults.Stdout,
		Stderr: defaults.Stderr,
	}

	if p.Stdout != nil {
		fd, err := openTarget(fsys, p.Stdout)
		if err != nil {
			return nil, err
		}
		out.Stdout = fd
		out.toClose = append(out.toClose, fd)
	}

	if p.Stderr != nil {
		fd, err := openTarget(fsys, p.Stderr)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.Stderr = fd
		out.toClose = append(out.toClose, fd)
	}

	return out, nil
}
