package shell

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound reports that a command is neither a builtin nor on PATH.
var ErrNotFound = errors.New("command not found")

// LookPath locates an executable for name in the colon-separated search
// path. A name containing a path separator is returned as-is; execution
// surfaces any error. Otherwise the first PATH entry containing a
// non-directory file with the owner-execute bit wins. Empty PATH entries are
// misses, not the current directory.
func LookPath(fsys afero.Fs, pathEnv, name string) (string, error) {
	if strings.Contains(name, "/") {
		return name, nil
	}

	for _, dir := range strings.Split(pathEnv, ":") {
		if dir == "" {
			continue
		}
		full := filepath.Join(dir, name)
		info, err := fsys.Stat(full)
		if err != nil {
			continue
		}
		if info.IsDir() || info.Mode().Perm()&0100 == 0 {
			continue
		}
		return full, nil
	}

	return "", ErrNotFound
}
