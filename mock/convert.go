package mock

import (
	"context"

	"github.com/fwojciec/ebook2pdf"
)

var _ ebook2pdf.Tool = (*Tool)(nil)

// Tool is a mock implementation of ebook2pdf.Tool.
type Tool struct {
	RunFn func(ctx context.Context, name string, args ...string) (*ebook2pdf.ToolResult, error)
}

func (t *Tool) Run(ctx context.Context, name string, args ...string) (*ebook2pdf.ToolResult, error) {
	return t.RunFn(ctx, name, args...)
}

var _ ebook2pdf.FontTranscoder = (*FontTranscoder)(nil)

// FontTranscoder is a mock implementation of ebook2pdf.FontTranscoder.
type FontTranscoder struct {
	TranscodeFn func(ctx context.Context, fontDir string, p ebook2pdf.Progress) ([]string, error)
}

func (t *FontTranscoder) Transcode(ctx context.Context, fontDir string, p ebook2pdf.Progress) ([]string, error) {
	return t.TranscodeFn(ctx, fontDir, p)
}

var _ ebook2pdf.FontCache = (*FontCache)(nil)

// FontCache is a mock implementation of ebook2pdf.FontCache.
type FontCache struct {
	InstallFn func(ctx context.Context, fonts []string, p ebook2pdf.Progress) error
}

func (c *FontCache) Install(ctx context.Context, fonts []string, p ebook2pdf.Progress) error {
	return c.InstallFn(ctx, fonts, p)
}

var _ ebook2pdf.PageRenderer = (*PageRenderer)(nil)

// PageRenderer is a mock implementation of ebook2pdf.PageRenderer.
type PageRenderer struct {
	RenderFn func(ctx context.Context, srcDir, destDir string, p ebook2pdf.Progress) (int, error)
}

func (r *PageRenderer) Render(ctx context.Context, srcDir, destDir string, p ebook2pdf.Progress) (int, error) {
	return r.RenderFn(ctx, srcDir, destDir, p)
}

var _ ebook2pdf.Assembler = (*Assembler)(nil)

// Assembler is a mock implementation of ebook2pdf.Assembler.
type Assembler struct {
	AssembleFn func(ctx context.Context, pageDir, outputPath string, p ebook2pdf.Progress) error
}

func (a *Assembler) Assemble(ctx context.Context, pageDir, outputPath string, p ebook2pdf.Progress) error {
	return a.AssembleFn(ctx, pageDir, outputPath, p)
}

var _ ebook2pdf.JobRunner = (*JobRunner)(nil)

// JobRunner is a mock implementation of ebook2pdf.JobRunner.
type JobRunner struct {
	RunFn func(ctx context.Context, req *ebook2pdf.JobRequest, live ebook2pdf.LiveChannel) *ebook2pdf.JobResult
}

func (r *JobRunner) Run(ctx context.Context, req *ebook2pdf.JobRequest, live ebook2pdf.LiveChannel) *ebook2pdf.JobResult {
	return r.RunFn(ctx, req, live)
}

var _ ebook2pdf.Simulator = (*Simulator)(nil)

// Simulator is a mock implementation of ebook2pdf.Simulator.
type Simulator struct {
	SimulateFn func(ctx context.Context, req *ebook2pdf.JobRequest, outputPath string, p ebook2pdf.Progress) error
}

func (s *Simulator) Simulate(ctx context.Context, req *ebook2pdf.JobRequest, outputPath string, p ebook2pdf.Progress) error {
	return s.SimulateFn(ctx, req, outputPath, p)
}
