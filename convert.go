package ebook2pdf

import "context"

// ToolResult is the outcome of an external command that ran to completion.
type ToolResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the command exited with status zero.
func (r *ToolResult) OK() bool {
	return r != nil && r.ExitCode == 0
}

// Tool runs external commands.
type Tool interface {
	// Run executes name with args and captures its output. A non-zero exit
	// is reported in the result, not as an error; an error means the
	// command could not be run at all.
	Run(ctx context.Context, name string, args ...string) (*ToolResult, error)
}

// FontTranscoder converts downloaded web fonts into installable fonts.
type FontTranscoder interface {
	// Transcode converts every web font in fontDir and returns the paths of
	// the fonts produced. Fonts that fail to convert are skipped.
	Transcode(ctx context.Context, fontDir string, p Progress) ([]string, error)
}

// FontCache is the host's installed-font directory and its cache index.
// It is shared by every job in the process and only ever grows.
type FontCache interface {
	// Install copies fonts into the cache directory and rebuilds the index.
	// A failed rebuild is reported as a warning.
	Install(ctx context.Context, fonts []string, p Progress) error
}

// PageRenderer renders vector pages into fixed-layout documents.
type PageRenderer interface {
	// Render converts every page in srcDir into a document with the same
	// stem in destDir and returns how many were produced. Pages that fail
	// to render are skipped.
	Render(ctx context.Context, srcDir, destDir string, p Progress) (int, error)
}

// Assembler merges per-page documents into the final artifact.
type Assembler interface {
	// Assemble merges the documents in pageDir in lexicographic filename
	// order into outputPath. Returns EASSEMBLY when outputPath's directory
	// is unusable or pageDir holds no documents.
	Assemble(ctx context.Context, pageDir, outputPath string, p Progress) error
}
