package shell

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// History is the shell's command history: an append-only list of entries
// plus a cursor marking how many entries the last flush persisted. The
// cursor lets `history -a` write only entries the file has not seen yet.
type History struct {
	fs           afero.Fs
	entries      []string
	lastAppended int
}

// NewHistory returns an empty history backed by the given filesystem.
func NewHistory(fsys afero.Fs) *History {
	return &History{fs: fsys}
}

// Append records a line. Blank lines are not recorded.
func (h *History) Append(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	h.entries = append(h.entries, line)
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns the recorded lines, oldest first.
func (h *History) Entries() []string {
	return h.entries
}

// Load reads a history file and appends its lines to the in-memory list.
// The flush cursor is not moved.
func (h *History) Load(path string) error {
	fd, err := h.fs.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close()

	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			h.entries = append(h.entries, line)
		}
	}
	return scanner.Err()
}

// Write persists the complete history to path, truncating it, and marks
// every entry as flushed.
func (h *History) Write(path string) error {
	fd, err := h.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer fd.Close()

	for _, entry := range h.entries {
		if _, err := fmt.Fprintln(fd, entry); err != nil {
			return err
		}
	}

	h.lastAppended = len(h.entries)
	return nil
}

// AppendSince appends the entries recorded after the last flush to path,
// creating the file if absent, then advances the cursor.
func (h *History) AppendSince(path string) error {
	fd, err := h.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer fd.Close()

	for _, entry := range h.entries[h.lastAppended:] {
		if _, err := fmt.Fprintln(fd, entry); err != nil {
			return err
		}
	}

	h.lastAppended = len(h.entries)
	return nil
}

// markFlushed records that every current entry is already persisted, as
// after the initial load of $HISTFILE.
func (h *History) markFlushed() {
	h.lastAppended = len(h.entries)
}
