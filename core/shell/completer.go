package shell

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/afero"
)

// Completer drives tab-completion for the line editor. It completes the
// first word of the line against the union of builtin names and executables
// found on PATH.
type Completer struct {
	fs      afero.Fs
	pathEnv func() string
	// bell receives the audible bell when no candidate matches.
	bell io.Writer
}

// NewCompleter returns a completer scanning the given filesystem. pathEnv is
// consulted on every completion so PATH changes take effect immediately.
func NewCompleter(fsys afero.Fs, pathEnv func() string, bell io.Writer) *Completer {
	return &Completer{fs: fsys, pathEnv: pathEnv, bell: bell}
}

// Complete returns the sorted, de-duplicated candidates for prefix: builtin
// names and the names of PATH entries that are executable regular files.
func (c *Completer) Complete(prefix string) []string {
	seen := make(map[string]bool)
	var matches []string

	for name := range AllBuiltins {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			matches = append(matches, name)
		}
	}

	for _, dir := range strings.Split(c.pathEnv(), ":") {
		if dir == "" {
			continue
		}
		entries, err := afero.ReadDir(c.fs, dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, prefix) || seen[name] {
				continue
			}
			info, err := c.fs.Stat(filepath.Join(dir, name))
			if err != nil || info.IsDir() || info.Mode().Perm()&0100 == 0 {
				continue
			}
			seen[name] = true
			matches = append(matches, name)
		}
	}

	sort.Strings(matches)
	return matches
}

// Do implements readline.AutoCompleter. Completion only triggers for the
// word starting at column 0; a single match completes with a trailing space,
// several matches complete to their longest common prefix and no match rings
// the bell.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !unicode.IsSpace(line[start-1]) {
		start--
	}
	if start != 0 {
		return nil, 0
	}

	prefix := string(line[:pos])
	matches := c.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprint(c.bell, "\a")
		return nil, pos
	}

	if len(matches) == 1 {
		suffix := matches[0][len(prefix):] + " "
		return [][]rune{[]rune(suffix)}, pos
	}

	if lcp := longestCommonPrefix(matches); lcp != prefix {
		return [][]rune{[]rune(lcp[len(prefix):])}, pos
	}

	candidates := make([][]rune, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, []rune(m[len(prefix):]))
	}
	return candidates, pos
}

func longestCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	prefix := strs[0]
	for _, s := range strs[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
