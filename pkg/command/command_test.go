package command

import (
	"bytes"
	"context"
	"errors"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os/exec"
	"testing"
)

func TestExec_Run(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	r := &Exec{}

	t.Run("success", func(t *testing.T) {
		out := &bytes.Buffer{}
		res, err := r.Run(ctx, Options{Output: out}, "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.EqualValues(t, "hello\n", res.Stdout)
		assert.EqualValues(t, 0, res.ExitCode)
		assert.EqualValues(t, "hello\n", out.String())
	})
	t.Run("working directory", func(t *testing.T) {
		dir := t.TempDir()
		res, err := r.Run(ctx, Options{Dir: dir}, "sh", "-c", "pwd")
		require.NoError(t, err)
		assert.Contains(t, res.Stdout, dir)
	})
	t.Run("non-zero exit", func(t *testing.T) {
		res, err := r.Run(ctx, Options{}, "sh", "-c", "echo oops >&2; exit 3")
		var cerr *Error
		require.True(t, errors.As(err, &cerr))
		assert.EqualValues(t, 3, cerr.ExitCode)
		assert.EqualValues(t, "oops\n", cerr.Stderr)
		assert.EqualValues(t, 3, res.ExitCode)
		assert.Contains(t, err.Error(), "exited with code 3: oops")
	})
	t.Run("missing program", func(t *testing.T) {
		_, err := r.Run(ctx, Options{}, "corbos-scm-does-not-exist")
		var cerr *Error
		require.True(t, errors.As(err, &cerr))
		assert.EqualValues(t, -1, cerr.ExitCode)
		assert.ErrorIs(t, err, exec.ErrNotFound)
	})
}
