// Package woff2 converts downloaded WOFF2 web fonts into TrueType fonts with
// the woff2_decompress tool.
package woff2

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/ebook2pdf"
	"golang.org/x/image/font/sfnt"
)

// DefaultCommand is the decompressor invoked for each font.
const DefaultCommand = "woff2_decompress"

// Ensure Transcoder implements ebook2pdf.FontTranscoder at compile time.
var _ ebook2pdf.FontTranscoder = (*Transcoder)(nil)

// Transcoder runs the decompressor over every .woff2 file in a directory.
type Transcoder struct {
	tool    ebook2pdf.Tool
	command string
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithCommand overrides the decompressor executable.
func WithCommand(name string) Option {
	return func(t *Transcoder) {
		t.command = name
	}
}

// NewTranscoder creates a Transcoder that runs commands through tool.
func NewTranscoder(tool ebook2pdf.Tool, opts ...Option) *Transcoder {
	t := &Transcoder{
		tool:    tool,
		command: DefaultCommand,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcode decompresses every .woff2 in fontDir into a .ttf with the same
// stem. A font that fails to convert, or whose output is not a parsable
// font, is skipped with a warning.
func (t *Transcoder) Transcode(ctx context.Context, fontDir string, p ebook2pdf.Progress) ([]string, error) {
	p.Emit(ebook2pdf.LevelInfo, "Convert the fonts from woff2 to ttf.")

	matches, err := filepath.Glob(filepath.Join(fontDir, "*.woff2"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var fonts []string
	for _, src := range matches {
		if err := ctx.Err(); err != nil {
			return fonts, err
		}
		dst := strings.TrimSuffix(src, ".woff2") + ".ttf"
		name := filepath.Base(src)

		result, err := t.tool.Run(ctx, t.command, src)
		if err != nil {
			if ctx.Err() != nil {
				return fonts, ctx.Err()
			}
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Could not convert font '%s'. Skipping font.\n%v", name, err))
			continue
		}
		if !result.OK() {
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Could not convert font '%s' (exit code %d). Skipping font.\nstdout: %s\nstderr: %s",
				name, result.ExitCode, result.Stdout, result.Stderr))
			continue
		}

		family, err := FamilyName(dst)
		if err != nil {
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Converted font '%s' is unusable. Skipping font.\n%v", name, err))
			continue
		}
		p.Emit(ebook2pdf.LevelDebug, fmt.Sprintf("Converted '%s' (family %q).", name, family))
		fonts = append(fonts, dst)
	}
	return fonts, nil
}

// FamilyName parses the font file at path and returns its family name.
func FamilyName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parsing font: %w", err)
	}
	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil && err != sfnt.ErrNotFound {
		return "", fmt.Errorf("reading family name: %w", err)
	}
	return family, nil
}
