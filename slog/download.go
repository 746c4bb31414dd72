package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ebook2pdf"
)

// Ensure LoggingDownloader implements ebook2pdf.Downloader.
var _ ebook2pdf.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with logging.
type LoggingDownloader struct {
	next   ebook2pdf.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next ebook2pdf.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// DownloadPages delegates to the wrapped downloader and logs how many of
// the requested pages were written.
func (d *LoggingDownloader) DownloadPages(ctx context.Context, baseURL string, cookies map[string]string, pageCount int, destDir string, p ebook2pdf.Progress) (n int, err error) {
	defer func(begin time.Time) {
		d.logger.Info("download pages",
			"base_url", baseURL,
			"requested", pageCount,
			"written", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DownloadPages(ctx, baseURL, cookies, pageCount, destDir, p)
}

// DownloadFontManifest delegates to the wrapped downloader.
func (d *LoggingDownloader) DownloadFontManifest(ctx context.Context, baseURL string, cookies map[string]string, destDir string, p ebook2pdf.Progress) (path string, err error) {
	defer func(begin time.Time) {
		d.logger.Debug("download font manifest",
			"base_url", baseURL,
			"found", path != "",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DownloadFontManifest(ctx, baseURL, cookies, destDir, p)
}

// DownloadFonts delegates to the wrapped downloader.
func (d *LoggingDownloader) DownloadFonts(ctx context.Context, baseURL string, cookies map[string]string, manifestPath, destDir string, p ebook2pdf.Progress) (n int, err error) {
	defer func(begin time.Time) {
		d.logger.Info("download fonts",
			"base_url", baseURL,
			"written", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DownloadFonts(ctx, baseURL, cookies, manifestPath, destDir, p)
}
