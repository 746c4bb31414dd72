package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/ebook2pdf/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkspace(t *testing.T) {
	t.Parallel()

	t.Run("creates the fixed layout", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		ws, err := fs.CreateWorkspace(base, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))
		require.NoError(t, err)
		defer ws.Remove()

		assert.Equal(t, base, filepath.Dir(ws.Root()))
		assert.True(t, strings.HasPrefix(filepath.Base(ws.Root()), "ebook2pdf-2024-03-01T123000Z-"))
		for _, dir := range []string{ws.ScreenshotDir(), ws.SVGDir(), ws.PDFDir(), ws.FontDir()} {
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
		assert.FileExists(t, ws.Path(fs.LogName))
	})

	t.Run("each workspace is distinct", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		now := time.Now()
		a, err := fs.CreateWorkspace(base, now)
		require.NoError(t, err)
		defer a.Remove()
		b, err := fs.CreateWorkspace(base, now)
		require.NoError(t, err)
		defer b.Remove()

		assert.NotEqual(t, a.Root(), b.Root())
	})

	t.Run("fails when the base directory is missing", func(t *testing.T) {
		t.Parallel()

		_, err := fs.CreateWorkspace(filepath.Join(t.TempDir(), "missing"), time.Now())

		require.Error(t, err)
	})
}

func TestWorkspace_Remove(t *testing.T) {
	t.Parallel()

	ws, err := fs.CreateWorkspace(t.TempDir(), time.Now())
	require.NoError(t, err)
	_, err = ws.Log().WriteString("[INFO] hello\n")
	require.NoError(t, err)

	require.NoError(t, ws.CloseLog())
	require.NoError(t, ws.CloseLog())
	data, err := os.ReadFile(ws.Path(fs.LogName))
	require.NoError(t, err)
	assert.Equal(t, "[INFO] hello\n", string(data))

	require.NoError(t, ws.Remove())
	assert.NoDirExists(t, ws.Root())
}
