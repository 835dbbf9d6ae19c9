package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/gosh-shell/gosh/core/config"
	"github.com/gosh-shell/gosh/core/logger"
	"github.com/spf13/afero"
)

// Shell is one interactive session: a line editor, the command history and
// the dispatch machinery. All state lives here; the REPL runs one command at
// a time. Within a pipeline, echo and type stages run as goroutines in this
// process alongside the spawned external stages.
type Shell struct {
	Config   *config.Configuration
	Fs       afero.Fs
	Readline *readline.Instance
	History  *History

	log     *logger.SessionLogger
	toClose listCloser
}

// New builds a shell for the current terminal. The history file named by
// $HISTFILE (or the configuration) is loaded immediately; load failures are
// ignored.
func New(configuration *config.Configuration) (*Shell, error) {
	fsys := afero.NewOsFs()

	shell := &Shell{
		Config:  configuration,
		Fs:      fsys,
		History: NewHistory(fsys),
		log:     logger.NewNopLogger().NewSession(),
	}

	if configuration.SessionLog && configuration.HasConfigDir() {
		fd, err := configuration.OpenSessionLog()
		if err != nil {
			return nil, err
		}
		shell.toClose = append(shell.toClose, fd)
		shell.log = logger.NewJSONLinesLogRecorder(fd).NewSession()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       configuration.Prompt,
		AutoComplete: NewCompleter(fsys, shell.pathEnv, os.Stdout),
	})
	if err != nil {
		shell.toClose.Close()
		return nil, err
	}
	shell.Readline = rl
	shell.toClose = append(shell.toClose, rl)

	if path := configuration.HistoryPath(); path != "" {
		_ = shell.History.Load(path)
		shell.History.markFlushed()
		for _, entry := range shell.History.Entries() {
			_ = rl.SaveHistory(entry)
		}
	}

	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	wd, _ := os.Getwd()
	shell.log.SessionStart(username, wd)

	return shell, nil
}

// Run is the read-eval-print loop. It returns on end of input; `exit`
// terminates the process directly. Errors in one command never escape past
// the loop.
func (s *Shell) Run() error {
	for {
		s.Readline.SetPrompt(s.Config.Prompt)
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			s.flushHistory()
			s.log.SessionEnd(0)
			return nil

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			return err

		case strings.TrimSpace(line) == "":
			continue

		default:
			s.History.Append(line)
			s.Dispatch(line)
		}
	}
}

// Dispatch executes one non-blank command line.
func (s *Shell) Dispatch(line string) {
	terminal := CommandIO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}

	if stages := SplitPipeline(line); len(stages) > 1 {
		s.RunPipeline(line, &terminal)
		return
	}

	argv, plan := ParseRedirections(Lex(line))
	if len(argv) == 0 {
		return
	}

	if builtin, ok := AllBuiltins[argv[0]]; ok {
		cmdIO, err := plan.Open(s.Fs, terminal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
			return
		}
		defer cmdIO.Close()

		s.log.CommandRun(argv[0], argv)
		builtin.Main(s, argv, cmdIO)
		return
	}

	full, err := LookPath(s.Fs, s.pathEnv(), argv[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: command not found\n", argv[0])
		s.log.LookupFailure(argv[0])
		return
	}

	cmdIO, err := plan.Open(s.Fs, terminal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
		return
	}
	defer cmdIO.Close()

	cmd := &exec.Cmd{
		Path:   full,
		Args:   argv,
		Stdin:  cmdIO.Stdin,
		Stdout: cmdIO.Stdout,
		Stderr: cmdIO.Stderr,
	}

	s.log.CommandRun(full, argv)
	if err := cmd.Run(); err != nil {
		// The child's exit status is observed but not propagated.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
		}
	}
}

// pathEnv is the current executable search path.
func (s *Shell) pathEnv() string {
	return s.Config.PathEnv()
}

// flushHistory writes the full history to the history file, if one is set.
func (s *Shell) flushHistory() {
	if path := s.Config.HistoryPath(); path != "" {
		_ = s.History.Write(path)
	}
}

// exit terminates the shell process after flushing state.
func (s *Shell) exit(code int) {
	s.flushHistory()
	s.log.SessionEnd(code)
	s.Close()
	os.Exit(code)
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
