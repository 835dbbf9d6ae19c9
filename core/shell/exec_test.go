package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gosh-shell/gosh/core/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func pipelineShell(t *testing.T) *Shell {
	t.Helper()
	t.Setenv(config.EnvPath, "/bin:/usr/bin")
	return testShell(t, afero.NewOsFs())
}

func TestRunPipelineBuiltinStages(t *testing.T) {
	s := pipelineShell(t)
	var stdout, stderr bytes.Buffer

	// Stage 2's echo ignores its stdin.
	s.RunPipeline("echo one | echo two", &CommandIO{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, "two\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunPipelineBuiltinToExternal(t *testing.T) {
	s := pipelineShell(t)
	var stdout, stderr bytes.Buffer

	s.RunPipeline("echo hello world | cat", &CommandIO{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, "hello world\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunPipelineThreeStages(t *testing.T) {
	s := pipelineShell(t)
	var stdout, stderr bytes.Buffer

	s.RunPipeline("echo hi | cat | cat", &CommandIO{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, "hi\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunPipelineTypeStage(t *testing.T) {
	s := pipelineShell(t)
	var stdout, stderr bytes.Buffer

	s.RunPipeline("type echo | cat", &CommandIO{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, "echo is a shell builtin\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunPipelineMissingCommand(t *testing.T) {
	s := pipelineShell(t)
	var stdout, stderr bytes.Buffer

	// The missing stage is reported; the rest of the pipeline still runs
	// and the shell does not hang on the orphaned pipe.
	s.RunPipeline("echo hi | gosh-no-such-command-xyz", &CommandIO{Stdout: &stdout, Stderr: &stderr})

	assert.Contains(t, stderr.String(), "gosh-no-such-command-xyz: command not found")
}

func TestRunPipelineEmptyStagesSkipped(t *testing.T) {
	s := pipelineShell(t)
	var stdout, stderr bytes.Buffer

	s.RunPipeline("echo solo |", &CommandIO{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, "solo\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunPipelineStageRedirectionsDiscarded(t *testing.T) {
	s := pipelineShell(t)
	var stdout, stderr bytes.Buffer

	// Redirection operators inside a pipeline stage are consumed but their
	// targets are not opened.
	s.RunPipeline("echo hi > ignored.txt | cat", &CommandIO{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, "hi\n", stdout.String())
	exists, err := afero.Exists(s.Fs, "ignored.txt")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestRunPipelineLongOutputDoesNotDeadlock(t *testing.T) {
	s := pipelineShell(t)
	var stdout bytes.Buffer

	// More than a pipe buffer of data through two stages.
	line := "echo " + strings.Repeat("x", 1<<17) + " | cat | cat"
	s.RunPipeline(line, &CommandIO{Stdout: &stdout, Stderr: &stdout})

	assert.Equal(t, 1<<17+1, stdout.Len())
}
