package executil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor_Output(t *testing.T) {
	e := &RealExecutor{}
	ctx := context.Background()

	t.Run("returns stdout only", func(t *testing.T) {
		out, err := e.Output(ctx, "sh", "-c", "echo out; echo err >&2")
		require.NoError(t, err)
		assert.Equal(t, "out\n", string(out))
	})

	t.Run("command not found", func(t *testing.T) {
		_, err := e.Output(ctx, "nonexistent-command-12345")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("failure carries stderr and exit error", func(t *testing.T) {
		_, err := e.Output(ctx, "sh", "-c", "echo 'bad input' >&2; exit 3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad input")

		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 3, exitErr.ExitCode())
	})

	t.Run("stderr capped", func(t *testing.T) {
		long := strings.Repeat("A", maxStderrLen*2)
		_, err := e.Output(ctx, "sh", "-c", fmt.Sprintf("printf '%%s' '%s' >&2; exit 1", long))
		require.Error(t, err)
		assert.NotContains(t, err.Error(), strings.Repeat("A", maxStderrLen+1))
	})
}

func TestRealExecutor_LookPath(t *testing.T) {
	e := &RealExecutor{}
	require.NoError(t, e.LookPath("sh"))
	assert.ErrorIs(t, e.LookPath("nonexistent-command-12345"), ErrNotFound)
}

func TestRecordingExecutor(t *testing.T) {
	t.Run("records commands", func(t *testing.T) {
		e := &RecordingExecutor{}
		ctx := context.Background()

		_, _ = e.Output(ctx, "pdftotext", "-layout", "a.pdf", "-")
		_, _ = e.Output(ctx, "pdfinfo", "a.pdf")

		require.Len(t, e.Commands, 2)
		assert.Equal(t, "pdftotext", e.Commands[0].Cmd)
		assert.Equal(t, []string{"-layout", "a.pdf", "-"}, e.Commands[0].Args)

		e.Reset()
		assert.Empty(t, e.Commands)
	})

	t.Run("returns configured output", func(t *testing.T) {
		e := &RecordingExecutor{
			Outputs: map[string][]byte{"pdftotext": []byte("text")},
		}
		out, err := e.Output(context.Background(), "pdftotext")
		require.NoError(t, err)
		assert.Equal(t, []byte("text"), out)
	})

	t.Run("returns configured error", func(t *testing.T) {
		want := errors.New("command failed")
		e := &RecordingExecutor{
			Errors: map[string]error{"pdftotext": want},
		}
		_, err := e.Output(context.Background(), "pdftotext")
		assert.Equal(t, want, err)
	})

	t.Run("missing tools", func(t *testing.T) {
		e := &RecordingExecutor{Missing: map[string]bool{"pdftotext": true}}
		assert.ErrorIs(t, e.LookPath("pdftotext"), ErrNotFound)
		assert.NoError(t, e.LookPath("sh"))
	})
}
