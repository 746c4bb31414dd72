// Package fpdf implements ebook2pdf.Simulator, producing a blank document
// with go-pdf/fpdf instead of contacting the remote site.
package fpdf

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/ebook2pdf"
	"github.com/go-pdf/fpdf"
)

// Simulated page count and page size in millimetres.
const (
	SimulatedPages = 10
	PageWidth      = 219
	PageHeight     = 297
)

// DefaultDelay is the pause after each simulated page download.
const DefaultDelay = 300 * time.Millisecond

// Ensure Simulator implements ebook2pdf.Simulator at compile time.
var _ ebook2pdf.Simulator = (*Simulator)(nil)

// Simulator replays the progress of a real job and writes a one-page blank
// PDF.
type Simulator struct {
	delay time.Duration
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithDelay sets the pause after each simulated page.
func WithDelay(d time.Duration) Option {
	return func(s *Simulator) {
		s.delay = d
	}
}

// NewSimulator creates a new Simulator.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{delay: DefaultDelay}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Simulate(ctx context.Context, req *ebook2pdf.JobRequest, outputPath string, p ebook2pdf.Progress) error {
	for _, msg := range []string{
		"Enter username and confirm.",
		"Enter password and confirm.",
		"Click the 'Reject All' button.",
		"Click the 'Browse content' button.",
		fmt.Sprintf("Load the ebook's index.html: '%s'.", req.EntryURL),
		"Export the cookies.",
		"Retrieve the number of pages.",
		"Close the browser.",
		"Download the ebook's pages as individual SVG files.",
	} {
		p.Emit(ebook2pdf.LevelInfo, msg)
	}

	for i := 1; i <= SimulatedPages; i++ {
		p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Download page %d/%d.", i, SimulatedPages))
		if err := sleep(ctx, s.delay); err != nil {
			return err
		}
	}

	for _, msg := range []string{
		"Download webFonts.css.",
		"Download the ebook's required fonts.",
		"Convert the fonts from woff2 to ttf.",
		"Install the fonts.",
		"Update the font cache.",
		"Convert the SVG files to PDF files.",
		"Merge the PDF pages into one PDF file.",
	} {
		p.Emit(ebook2pdf.LevelInfo, msg)
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	doc.AddPage()
	if err := doc.OutputFileAndClose(outputPath); err != nil {
		return ebook2pdf.WrapError(ebook2pdf.EASSEMBLY, err, "writing placeholder document")
	}
	p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Done: '%s'", outputPath))
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
