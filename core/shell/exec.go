package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// stageBuiltins are the builtins a pipeline stage implements in-stage. The
// remaining builtins have no meaningful pipeline semantics and fall through
// to PATH resolution like any external command.
var stageBuiltins = map[string]bool{
	"echo": true,
	"type": true,
}

type pipePair struct {
	r, w *os.File
}

// RunPipeline executes a command line containing at least one unquoted pipe.
// Each stage is trimmed and lexed independently; redirection operators inside
// a stage are consumed but their targets are not applied. Between adjacent
// stages there is exactly one anonymous pipe. Every parent-held pipe end is
// closed before waiting so a stage that ignores its stdin cannot deadlock
// the shell; children are reaped in spawn order.
func (s *Shell) RunPipeline(line string, cmdIO *CommandIO) {
	var stages [][]string
	for _, part := range SplitPipeline(line) {
		tokens := Lex(strings.TrimSpace(part))
		argv, _ := ParseRedirections(tokens)
		if len(argv) == 0 {
			continue
		}
		stages = append(stages, argv)
	}

	n := len(stages)
	if n == 0 {
		return
	}

	pipes := make([]pipePair, n-1)
	for i := range pipes {
		r, w, err := os.Pipe()
		if err != nil {
			fmt.Fprintln(cmdIO.Stderr, "gosh: pipe:", err)
			for _, p := range pipes[:i] {
				p.r.Close()
				p.w.Close()
			}
			return
		}
		pipes[i] = pipePair{r: r, w: w}
	}

	// Pipe ends handed to in-stage builtins are closed by their goroutine;
	// the parent closes the rest below.
	parentOwned := make(map[*os.File]bool, 2*len(pipes))
	for _, p := range pipes {
		parentOwned[p.r] = true
		parentOwned[p.w] = true
	}

	var cmds []*exec.Cmd
	var wg sync.WaitGroup

	for i, argv := range stages {
		var stdin io.Reader = cmdIO.Stdin
		var stdout io.Writer = cmdIO.Stdout
		var inFile, outFile *os.File
		if i > 0 {
			inFile = pipes[i-1].r
			stdin = inFile
		}
		if i < n-1 {
			outFile = pipes[i].w
			stdout = outFile
		}

		if stageBuiltins[argv[0]] {
			builtin := AllBuiltins[argv[0]]
			delete(parentOwned, inFile)
			delete(parentOwned, outFile)

			wg.Add(1)
			go func(argv []string, stdin io.Reader, stdout io.Writer, inFile, outFile *os.File) {
				defer wg.Done()
				builtin.Main(s, argv, &CommandIO{
					Stdin:  stdin,
					Stdout: stdout,
					Stderr: cmdIO.Stderr,
				})
				if inFile != nil {
					inFile.Close()
				}
				if outFile != nil {
					outFile.Close()
				}
			}(argv, stdin, stdout, inFile, outFile)
			continue
		}

		full, err := LookPath(s.Fs, s.pathEnv(), argv[0])
		if err != nil {
			fmt.Fprintf(cmdIO.Stderr, "%s: command not found\n", argv[0])
			s.log.LookupFailure(argv[0])
			continue
		}

		cmd := &exec.Cmd{
			Path:   full,
			Args:   argv,
			Stdin:  stdin,
			Stdout: stdout,
			Stderr: cmdIO.Stderr,
		}
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(cmdIO.Stderr, "%s: %v\n", argv[0], err)
			continue
		}
		s.log.CommandRun(full, argv)
		cmds = append(cmds, cmd)
	}

	for _, p := range pipes {
		if parentOwned[p.r] {
			p.r.Close()
		}
		if parentOwned[p.w] {
			p.w.Close()
		}
	}

	for _, cmd := range cmds {
		_ = cmd.Wait()
	}
	wg.Wait()
}
