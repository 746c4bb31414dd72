// Package inkscape renders SVG pages into single-page PDF documents with the
// inkscape command line.
package inkscape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/ebook2pdf"
)

// DefaultCommand is the renderer executable.
const DefaultCommand = "inkscape"

// Ensure Renderer implements ebook2pdf.PageRenderer at compile time.
var _ ebook2pdf.PageRenderer = (*Renderer)(nil)

// Renderer converts SVG pages one at a time.
type Renderer struct {
	tool    ebook2pdf.Tool
	command string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCommand overrides the renderer executable.
func WithCommand(name string) Option {
	return func(r *Renderer) {
		r.command = name
	}
}

// NewRenderer creates a Renderer that runs commands through tool.
func NewRenderer(tool ebook2pdf.Tool, opts ...Option) *Renderer {
	r := &Renderer{
		tool:    tool,
		command: DefaultCommand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts each .svg in srcDir, in filename order, to a .pdf with the
// same stem in destDir. Pages that fail to render are skipped with a warning.
func (r *Renderer) Render(ctx context.Context, srcDir, destDir string, p ebook2pdf.Progress) (int, error) {
	p.Emit(ebook2pdf.LevelInfo, "Convert the SVG files to PDF files.")

	pages, err := filepath.Glob(filepath.Join(srcDir, "*.svg"))
	if err != nil {
		return 0, err
	}
	sort.Strings(pages)

	rendered := 0
	for i, src := range pages {
		if err := ctx.Err(); err != nil {
			return rendered, err
		}
		name := filepath.Base(src)
		dst := filepath.Join(destDir, strings.TrimSuffix(name, ".svg")+ebook2pdf.ArtifactExt)
		p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Convert page %d/%d.", i+1, len(pages)))

		result, err := r.tool.Run(ctx, r.command, "--export-filename="+dst, src)
		if err != nil {
			if ctx.Err() != nil {
				return rendered, ctx.Err()
			}
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Could not convert '%s'. Skipping page.\n%v", name, err))
			continue
		}
		if !result.OK() {
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Could not convert '%s' (exit code %d). Skipping page.\nstdout: %s\nstderr: %s",
				name, result.ExitCode, result.Stdout, result.Stderr))
			continue
		}
		if _, err := os.Stat(dst); err != nil {
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Converting '%s' produced no PDF file. Skipping page.\nstdout: %s\nstderr: %s",
				name, result.Stdout, result.Stderr))
			continue
		}
		rendered++
	}
	return rendered, nil
}
