package mock

import (
	"context"

	"github.com/fwojciec/ebook2pdf"
)

var _ ebook2pdf.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of ebook2pdf.Downloader.
type Downloader struct {
	DownloadPagesFn        func(ctx context.Context, baseURL string, cookies map[string]string, pageCount int, destDir string, p ebook2pdf.Progress) (int, error)
	DownloadFontManifestFn func(ctx context.Context, baseURL string, cookies map[string]string, destDir string, p ebook2pdf.Progress) (string, error)
	DownloadFontsFn        func(ctx context.Context, baseURL string, cookies map[string]string, manifestPath, destDir string, p ebook2pdf.Progress) (int, error)
}

func (d *Downloader) DownloadPages(ctx context.Context, baseURL string, cookies map[string]string, pageCount int, destDir string, p ebook2pdf.Progress) (int, error) {
	return d.DownloadPagesFn(ctx, baseURL, cookies, pageCount, destDir, p)
}

func (d *Downloader) DownloadFontManifest(ctx context.Context, baseURL string, cookies map[string]string, destDir string, p ebook2pdf.Progress) (string, error) {
	return d.DownloadFontManifestFn(ctx, baseURL, cookies, destDir, p)
}

func (d *Downloader) DownloadFonts(ctx context.Context, baseURL string, cookies map[string]string, manifestPath, destDir string, p ebook2pdf.Progress) (int, error) {
	return d.DownloadFontsFn(ctx, baseURL, cookies, manifestPath, destDir, p)
}
