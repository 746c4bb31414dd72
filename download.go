package ebook2pdf

import "context"

// Downloader fetches an ebook's resources with a harvested session.
// Per-item failures are reported as warnings and skipped; only context
// cancellation and local write failures are returned.
type Downloader interface {
	// DownloadPages writes pages 1..pageCount as zero-padded .svg files to
	// destDir and returns how many were written.
	DownloadPages(ctx context.Context, baseURL string, cookies map[string]string, pageCount int, destDir string, p Progress) (int, error)

	// DownloadFontManifest writes the ebook's stylesheet to destDir and
	// returns its path, or "" when it could not be fetched.
	DownloadFontManifest(ctx context.Context, baseURL string, cookies map[string]string, destDir string, p Progress) (string, error)

	// DownloadFonts fetches each distinct font referenced by the manifest
	// into destDir and returns how many were written.
	DownloadFonts(ctx context.Context, baseURL string, cookies map[string]string, manifestPath, destDir string, p Progress) (int, error)
}
