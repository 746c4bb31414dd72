package exec_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/ebook2pdf"
	"github.com/fwojciec/ebook2pdf/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("captures stdout and zero exit", func(t *testing.T) {
		t.Parallel()

		result, err := exec.NewRunner().Run(context.Background(), "sh", "-c", "echo hello")

		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, "hello\n", result.Stdout)
	})

	t.Run("reports non-zero exit in the result", func(t *testing.T) {
		t.Parallel()

		result, err := exec.NewRunner().Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")

		require.NoError(t, err)
		assert.False(t, result.OK())
		assert.Equal(t, 3, result.ExitCode)
		assert.Equal(t, "oops\n", result.Stderr)
	})

	t.Run("returns an error when the command does not exist", func(t *testing.T) {
		t.Parallel()

		result, err := exec.NewRunner().Run(context.Background(), "ebook2pdf-no-such-command")

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, ebook2pdf.EINTERNAL, ebook2pdf.ErrorCode(err))
	})

	t.Run("returns the context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := exec.NewRunner().Run(ctx, "sleep", "5")

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("runs in the configured directory with extra env", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0644))

		result, err := exec.NewRunner(exec.WithDir(dir), exec.WithEnv("EBOOK2PDF_TEST=yes")).
			Run(context.Background(), "sh", "-c", "ls; echo $EBOOK2PDF_TEST")

		require.NoError(t, err)
		assert.Equal(t, "marker\nyes\n", result.Stdout)
	})
}
