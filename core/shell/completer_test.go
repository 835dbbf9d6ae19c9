package shell

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCompleter(t *testing.T, pathEnv string) (*Completer, *bytes.Buffer) {
	t.Helper()

	fsys := execFs(t, map[string]bool{
		"/bin/exa":     true,
		"/bin/exif":    true,
		"/usr/bin/exa": true, // duplicate name in a later dir
		"/bin/notes":   false,
	})

	bell := &bytes.Buffer{}
	return NewCompleter(fsys, func() string { return pathEnv }, bell), bell
}

func TestCompleterComplete(t *testing.T) {
	completer, bell := testCompleter(t, "/bin:/usr/bin")

	t.Run("builtins and executables merge", func(t *testing.T) {
		matches := completer.Complete("e")
		assert.Equal(t, []string{"echo", "exa", "exif", "exit"}, matches)
	})

	t.Run("result is sorted and unique", func(t *testing.T) {
		matches := completer.Complete("")
		assert.True(t, sort.StringsAreSorted(matches))
		for i := 1; i < len(matches); i++ {
			assert.Less(t, matches[i-1], matches[i])
		}
	})

	t.Run("non-executable files are excluded", func(t *testing.T) {
		assert.Empty(t, completer.Complete("notes"))
	})

	t.Run("builtins complete without PATH", func(t *testing.T) {
		noPath, _ := testCompleter(t, "")
		assert.Equal(t, []string{"history"}, noPath.Complete("hist"))
	})

	assert.Empty(t, bell.String())
}

func TestCompleterDo(t *testing.T) {
	t.Run("single match completes with trailing space", func(t *testing.T) {
		completer, bell := testCompleter(t, "/bin:/usr/bin")
		line := []rune("hist")
		candidates, length := completer.Do(line, len(line))

		assert.Equal(t, [][]rune{[]rune("ory ")}, candidates)
		assert.Equal(t, len(line), length)
		assert.Empty(t, bell.String())
	})

	t.Run("several matches without a longer common prefix are all offered", func(t *testing.T) {
		completer, _ := testCompleter(t, "/bin:/usr/bin")
		line := []rune("exi")
		candidates, _ := completer.Do(line, len(line))

		// exif and exit share no further prefix, so both are offered.
		assert.Len(t, candidates, 2)
	})

	t.Run("builtins and executables are offered together", func(t *testing.T) {
		completer, _ := testCompleter(t, "/bin:/usr/bin")
		line := []rune("ex")
		candidates, _ := completer.Do(line, len(line))

		// exa, exif, exit: nothing further in common beyond "ex".
		assert.Len(t, candidates, 3)
	})

	t.Run("no match rings the bell", func(t *testing.T) {
		completer, bell := testCompleter(t, "/bin:/usr/bin")
		line := []rune("zzz")
		candidates, _ := completer.Do(line, len(line))

		assert.Nil(t, candidates)
		assert.Equal(t, "\a", bell.String())
	})

	t.Run("only the first word completes", func(t *testing.T) {
		completer, bell := testCompleter(t, "/bin:/usr/bin")
		line := []rune("echo hist")
		candidates, _ := completer.Do(line, len(line))

		assert.Nil(t, candidates)
		assert.Empty(t, bell.String())
	})
}
