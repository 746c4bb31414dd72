package fontconfig_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/ebook2pdf"
	"github.com/fwojciec/ebook2pdf/fontconfig"
	"github.com/fwojciec/ebook2pdf/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okTool(calls *atomic.Int32) *mock.Tool {
	return &mock.Tool{
		RunFn: func(ctx context.Context, name string, args ...string) (*ebook2pdf.ToolResult, error) {
			calls.Add(1)
			return &ebook2pdf.ToolResult{}, nil
		},
	}
}

func writeFont(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCache_Install(t *testing.T) {
	t.Parallel()

	t.Run("copies fonts and rebuilds the cache", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		dir := filepath.Join(t.TempDir(), "fonts")
		var calls atomic.Int32
		var command []string
		tool := &mock.Tool{
			RunFn: func(ctx context.Context, name string, args ...string) (*ebook2pdf.ToolResult, error) {
				calls.Add(1)
				command = append([]string{name}, args...)
				return &ebook2pdf.ToolResult{}, nil
			},
		}
		cache := fontconfig.NewCache(tool, fontconfig.WithDir(dir))

		err := cache.Install(context.Background(), []string{writeFont(t, src, "A.ttf", "a")}, &mock.ProgressRecorder{})

		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, "A.ttf"))
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, []string{"fc-cache", "-f"}, command)
	})

	t.Run("leaves an identical font in place", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		dir := t.TempDir()
		installed := writeFont(t, dir, "A.ttf", "a")
		old := time.Now().Add(-time.Hour).Truncate(time.Second)
		require.NoError(t, os.Chtimes(installed, old, old))
		var calls atomic.Int32
		p := &mock.ProgressRecorder{}

		err := fontconfig.NewCache(okTool(&calls), fontconfig.WithDir(dir)).
			Install(context.Background(), []string{writeFont(t, src, "A.ttf", "a")}, p)

		require.NoError(t, err)
		info, err := os.Stat(installed)
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(old))
		assert.True(t, p.Contains(ebook2pdf.LevelDebug, "already installed"))
	})

	t.Run("replaces a font with different content", func(t *testing.T) {
		t.Parallel()

		src := t.TempDir()
		dir := t.TempDir()
		writeFont(t, dir, "A.ttf", "old")
		var calls atomic.Int32

		err := fontconfig.NewCache(okTool(&calls), fontconfig.WithDir(dir)).
			Install(context.Background(), []string{writeFont(t, src, "A.ttf", "new")}, &mock.ProgressRecorder{})

		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, "A.ttf"))
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("failed rebuild is a warning", func(t *testing.T) {
		t.Parallel()

		tool := &mock.Tool{
			RunFn: func(ctx context.Context, name string, args ...string) (*ebook2pdf.ToolResult, error) {
				return &ebook2pdf.ToolResult{ExitCode: 2, Stderr: "no cache dir"}, nil
			},
		}
		p := &mock.ProgressRecorder{}

		err := fontconfig.NewCache(tool, fontconfig.WithDir(t.TempDir())).Install(context.Background(), nil, p)

		require.NoError(t, err)
		assert.True(t, p.Contains(ebook2pdf.LevelWarning, "no cache dir"))
	})

	t.Run("serializes concurrent installs", func(t *testing.T) {
		t.Parallel()

		var active, peak atomic.Int32
		tool := &mock.Tool{
			RunFn: func(ctx context.Context, name string, args ...string) (*ebook2pdf.ToolResult, error) {
				n := active.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				active.Add(-1)
				return &ebook2pdf.ToolResult{}, nil
			},
		}
		cache := fontconfig.NewCache(tool, fontconfig.WithDir(t.TempDir()))

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = cache.Install(context.Background(), nil, &mock.ProgressRecorder{})
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), peak.Load())
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	first := fontconfig.Default(okTool(&calls), fontconfig.WithDir(t.TempDir()))
	second := fontconfig.Default(okTool(&calls))

	assert.Same(t, first, second)
}
