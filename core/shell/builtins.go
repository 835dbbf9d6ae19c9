package shell

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds every registered shell builtin, keyed by name.
// Membership drives both dispatch and completion.
var AllBuiltins = make(map[string]ShellBuiltin)

// ShellBuiltin is a command implemented in-process by the shell.
type ShellBuiltin interface {
	Main(s *Shell, args []string, cmdIO *CommandIO) int
}

type ShellBuiltinFunc func(s *Shell, args []string, cmdIO *CommandIO) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string, cmdIO *CommandIO) int {
	return f(s, args, cmdIO)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Echo writes its arguments joined by single spaces.
func Echo(s *Shell, args []string, cmdIO *CommandIO) int {
	w := cmdIO.Stdout
	for i, arg := range args[1:] {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, arg)
	}
	fmt.Fprintln(w)
	return 0
}

// Exit flushes the history and terminates the shell.
func Exit(s *Shell, args []string, cmdIO *CommandIO) int {
	code := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(cmdIO.Stderr, "exit: %s: numeric argument required\n", args[1])
			s.exit(2)
			return 2
		}
		code = n
	}
	s.exit(code)
	return 0
}

// Type reports how each name would be resolved: builtin, PATH executable or
// not found. All three outcomes print to stdout.
func Type(s *Shell, args []string, cmdIO *CommandIO) int {
	w := cmdIO.Stdout
	if len(args) < 2 {
		fmt.Fprintln(w, "type: missing argument")
		return 1
	}

	status := 0
	for _, name := range args[1:] {
		if _, ok := AllBuiltins[name]; ok {
			fmt.Fprintf(w, "%s is a shell builtin\n", name)
			continue
		}
		full, err := LookPath(s.Fs, s.pathEnv(), name)
		if err != nil {
			fmt.Fprintf(w, "%s: not found\n", name)
			status = 1
			continue
		}
		fmt.Fprintf(w, "%s is %s\n", name, full)
	}
	return status
}

// Pwd prints the current working directory.
func Pwd(s *Shell, args []string, cmdIO *CommandIO) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(cmdIO.Stderr, "pwd: error retrieving current directory")
		return 1
	}
	fmt.Fprintln(cmdIO.Stdout, wd)
	return 0
}

// Cd changes the working directory. With no argument it does nothing; `~`
// goes to $HOME.
func Cd(s *Shell, args []string, cmdIO *CommandIO) int {
	if len(args) < 2 {
		return 0
	}

	path := args[1]
	target := path
	if path == "~" {
		target = os.Getenv("HOME")
	}

	if target == "" || os.Chdir(target) != nil {
		fmt.Fprintf(cmdIO.Stderr, "cd: %s: No such file or directory\n", path)
		return 1
	}
	return 0
}

// HistoryBuiltin displays or manipulates the history list.
func HistoryBuiltin(s *Shell, args []string, cmdIO *CommandIO) int {
	opts := getopt.New()
	readFile := opts.String('r', "", "read FILE and append its lines to the history list", "FILE")
	writeFile := opts.String('w', "", "write the complete history to FILE", "FILE")
	appendFile := opts.String('a', "", "append history entries not yet saved to FILE", "FILE")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := cmdIO.Stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [N | -r FILE | -w FILE | -a FILE]")
		fmt.Fprintln(w, "Display or manipulate the history list")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	// File operations fail silently; a missing or unwritable history file
	// never disturbs the session.
	switch {
	case *readFile != "":
		_ = s.History.Load(*readFile)
		return 0
	case *writeFile != "":
		_ = s.History.Write(*writeFile)
		return 0
	case *appendFile != "":
		_ = s.History.AppendSince(*appendFile)
		return 0
	}

	entries := s.History.Entries()
	start := 0
	if rest := opts.Args(); len(rest) > 0 {
		if n, err := strconv.Atoi(rest[0]); err == nil && n > 0 && n < len(entries) {
			start = len(entries) - n
		}
	}

	for i := start; i < len(entries); i++ {
		fmt.Fprintf(cmdIO.Stdout, "    %d  %s\n", i+1, entries[i])
	}
	return 0
}

func init() {
	AllBuiltins["echo"] = ShellBuiltinFunc(Echo)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["type"] = ShellBuiltinFunc(Type)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["history"] = ShellBuiltinFunc(HistoryBuiltin)
}
