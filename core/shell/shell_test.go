package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gosh-shell/gosh/core/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchBuiltinRedirection(t *testing.T) {
	s := testShell(t, afero.NewOsFs())
	out := filepath.Join(t.TempDir(), "x")

	s.Dispatch("echo hi > " + out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(content))
}

func TestDispatchAppendRedirection(t *testing.T) {
	s := testShell(t, afero.NewOsFs())
	out := filepath.Join(t.TempDir(), "x")

	s.Dispatch("echo one > " + out)
	s.Dispatch("echo two >> " + out)
	s.Dispatch("echo three 1>> " + out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(content))
}

func TestDispatchExternalRedirection(t *testing.T) {
	t.Setenv(config.EnvPath, "/bin:/usr/bin")
	s := testShell(t, afero.NewOsFs())

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(src, []byte("data\n"), 0644))

	s.Dispatch("cat " + src + " > " + out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "data\n", string(content))
}

func TestDispatchQuotedArguments(t *testing.T) {
	s := testShell(t, afero.NewOsFs())
	out := filepath.Join(t.TempDir(), "x")

	s.Dispatch(`echo "a 'b' c" > ` + out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a 'b' c\n", string(content))
}

func TestDispatchEmptyLine(t *testing.T) {
	s := testShell(t, afero.NewOsFs())

	// Lexes to zero tokens; nothing to do.
	s.Dispatch("   ")
}

func TestFlushHistory(t *testing.T) {
	dir := t.TempDir()
	hist := filepath.Join(dir, "history")
	t.Setenv(config.EnvHistFile, hist)

	s := testShell(t, afero.NewOsFs())
	s.History.Append("echo one")
	s.History.Append("pwd")
	s.flushHistory()

	content, err := os.ReadFile(hist)
	require.NoError(t, err)
	assert.Equal(t, "echo one\npwd\n", string(content))
}

func TestFlushHistoryWithoutHistfile(t *testing.T) {
	t.Setenv(config.EnvHistFile, "")

	cfg := config.Default()
	cfg.HistoryFile = ""
	s := testShell(t, afero.NewMemMapFs())
	s.Config = cfg

	// No file configured: flush is a no-op.
	s.History.Append("echo one")
	s.flushHistory()
}
