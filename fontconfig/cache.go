// Package fontconfig installs fonts into the user's font directory and
// rebuilds the fontconfig cache so rendering tools can find them.
package fontconfig

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ebook2pdf"
)

// DefaultCommand rebuilds the font cache index.
const DefaultCommand = "fc-cache"

// Ensure Cache implements ebook2pdf.FontCache at compile time.
var _ ebook2pdf.FontCache = (*Cache)(nil)

// Cache is a font directory shared by every job in the process. Install
// calls are serialized.
type Cache struct {
	mu      sync.Mutex
	tool    ebook2pdf.Tool
	dir     string
	command string
}

// Option configures a Cache.
type Option func(*Cache)

// WithDir sets the font directory.
// Defaults to DefaultDir() if not specified.
func WithDir(dir string) Option {
	return func(c *Cache) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithCommand overrides the cache rebuild executable.
func WithCommand(name string) Option {
	return func(c *Cache) {
		c.command = name
	}
}

// NewCache creates a Cache that runs commands through tool.
func NewCache(tool ebook2pdf.Tool, opts ...Option) *Cache {
	c := &Cache{
		tool:    tool,
		dir:     DefaultDir(),
		command: DefaultCommand,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide Cache, creating it on first use. The
// options only apply to that first call.
func Default(tool ebook2pdf.Tool, opts ...Option) *Cache {
	defaultOnce.Do(func() {
		defaultCache = NewCache(tool, opts...)
	})
	return defaultCache
}

// DefaultDir returns $HOME/.local/share/fonts.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "share", "fonts")
}

// Dir returns the font directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Install copies fonts into the font directory and rebuilds the cache. A font
// already present with identical content is not copied again. A failed
// rebuild is only a warning.
func (c *Cache) Install(ctx context.Context, fonts []string, p ebook2pdf.Progress) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p.Emit(ebook2pdf.LevelInfo, "Install the fonts.")
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating font directory: %w", err)
	}

	for _, src := range fonts {
		dst := filepath.Join(c.dir, filepath.Base(src))
		same, err := identical(src, dst)
		if err != nil {
			return err
		}
		if same {
			p.Emit(ebook2pdf.LevelDebug, fmt.Sprintf("Font '%s' is already installed.", filepath.Base(src)))
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}

	p.Emit(ebook2pdf.LevelInfo, "Update the font cache.")
	result, err := c.tool.Run(ctx, c.command, "-f")
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Could not update the font cache.\n%v", err))
		return nil
	}
	if !result.OK() {
		p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Could not update the font cache (exit code %d).\nstdout: %s\nstderr: %s",
			result.ExitCode, result.Stdout, result.Stderr))
	}
	return nil
}

// identical reports whether dst exists with the same content as src.
func identical(src, dst string) (bool, error) {
	dstSum, err := checksum(dst)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	srcSum, err := checksum(src)
	if err != nil {
		return false, err
	}
	return srcSum == dstSum, nil
}

func checksum(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening font: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("installing font: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("installing font: %w", err)
	}
	return out.Close()
}
