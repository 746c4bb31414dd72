// Package http implements ebook2pdf.Downloader, fetching an ebook's pages
// and fonts with the cookies of a harvested session.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/ebook2pdf"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the default timeout of a single request.
const DefaultTimeout = ebook2pdf.DefaultDownloadTimeout

// ManifestName is the stylesheet listing the ebook's fonts.
const ManifestName = "webFonts.css"

// Ensure Downloader implements ebook2pdf.Downloader at compile time.
var _ ebook2pdf.Downloader = (*Downloader)(nil)

// Downloader fetches ebook resources one request at a time.
type Downloader struct {
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithTimeout sets the timeout of each request.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// WithRate limits requests to rps per second. Zero means unlimited.
func WithRate(rps float64) Option {
	return func(dl *Downloader) {
		if rps > 0 {
			dl.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithClient sets the HTTP client. Its Timeout is overridden.
func WithClient(c *http.Client) Option {
	return func(dl *Downloader) {
		dl.client = c
	}
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...Option) *Downloader {
	d := &Downloader{
		client:  &http.Client{},
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.client.Timeout = d.timeout
	return d
}

// DownloadPages fetches {baseURL}/xml/topic{i}.svg for i in 1..pageCount.
// A page that fails to download or is not an SVG document is skipped with
// a warning.
func (d *Downloader) DownloadPages(ctx context.Context, baseURL string, cookies map[string]string, pageCount int, destDir string, p ebook2pdf.Progress) (int, error) {
	p.Emit(ebook2pdf.LevelInfo, "Download the ebook's pages as individual SVG files.")
	written := 0
	for i := 1; i <= pageCount; i++ {
		url := fmt.Sprintf("%s/xml/topic%d.svg", baseURL, i)
		p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Download page %d/%d.", i, pageCount))

		body, err := d.get(ctx, url, cookies)
		if err != nil {
			if ctx.Err() != nil {
				return written, ctx.Err()
			}
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Error downloading ebook page %d from '%s'. Skipping page.\n%v", i, url, err))
			continue
		}
		if err := ValidateSVG(body); err != nil {
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Ebook page %d from '%s' is not an SVG document. Skipping page.\n%v", i, url, err))
			continue
		}

		name := ebook2pdf.PageFilename(i, pageCount, ".svg")
		if err := os.WriteFile(filepath.Join(destDir, name), body, 0644); err != nil {
			return written, fmt.Errorf("writing page %d: %w", i, err)
		}
		written++
	}
	return written, nil
}

// DownloadFontManifest fetches {baseURL}/css/webFonts.css into destDir.
// When the stylesheet cannot be fetched it warns and returns "".
func (d *Downloader) DownloadFontManifest(ctx context.Context, baseURL string, cookies map[string]string, destDir string, p ebook2pdf.Progress) (string, error) {
	p.Emit(ebook2pdf.LevelInfo, "Download "+ManifestName+".")
	url := baseURL + "/css/" + ManifestName

	body, err := d.get(ctx, url, cookies)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Error downloading '%s'. Continuing without fonts.\n%v", url, err))
		return "", nil
	}

	manifestPath := filepath.Join(destDir, ManifestName)
	if err := os.WriteFile(manifestPath, body, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", ManifestName, err)
	}
	return manifestPath, nil
}

// DownloadFonts fetches every distinct woff2 font referenced by the manifest
// from {baseURL}/css/{path}. Fonts that fail to download are skipped with a
// warning.
func (d *Downloader) DownloadFonts(ctx context.Context, baseURL string, cookies map[string]string, manifestPath, destDir string, p ebook2pdf.Progress) (int, error) {
	if manifestPath == "" {
		return 0, nil
	}

	p.Emit(ebook2pdf.LevelInfo, "Extract the fonts' urls from "+ManifestName+".")
	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", ManifestName, err)
	}
	fontPaths := ebook2pdf.FontPaths(string(manifest))

	p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Download the ebook's required fonts (found %d font URLs).", len(fontPaths)))
	written := 0
	for _, fontPath := range fontPaths {
		url := baseURL + "/css/" + fontPath
		body, err := d.get(ctx, url, cookies)
		if err != nil {
			if ctx.Err() != nil {
				return written, ctx.Err()
			}
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Error downloading font from '%s'. Skipping font.\n%v", url, err))
			continue
		}

		name := path.Base(fontPath)
		if err := os.WriteFile(filepath.Join(destDir, name), body, 0644); err != nil {
			return written, fmt.Errorf("writing font %s: %w", name, err)
		}
		p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Wrote '%s' to file.", name))
		written++
	}
	return written, nil
}

// get fetches url with cookies attached and returns the body of a 2xx
// response.
func (d *Downloader) get(ctx context.Context, url string, cookies map[string]string) ([]byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		req.AddCookie(&http.Cookie{Name: name, Value: cookies[name]})
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

// ValidateSVG returns an error unless data is an XML document whose root
// element is svg. Session expiry shows up as an HTML login page served
// with status 200.
func ValidateSVG(data []byte) error {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parsing SVG: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty SVG document")
	}
	if root.Tag != "svg" {
		return fmt.Errorf("root element is <%s>, not <svg>", root.Tag)
	}
	return nil
}
