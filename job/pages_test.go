package job_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fwojciec/ebook2pdf"
	ebookhttp "github.com/fwojciec/ebook2pdf/http"
	"github.com/fwojciec/ebook2pdf/mock"
	"github.com/fwojciec/ebook2pdf/pdfcpu"
	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ebookServer serves page i of a book as an SVG document except for the
// pages listed in missing, which return 404. The font stylesheet is empty.
func ebookServer(t *testing.T, missing ...int) *httptest.Server {
	t.Helper()
	gone := make(map[int]bool, len(missing))
	for _, i := range missing {
		gone[i] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var i int
		if _, err := fmt.Sscanf(r.URL.Path, "/book/xml/topic%d.svg", &i); err == nil && !gone[i] {
			fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg"><text>page %d</text></svg>`, i)
			return
		}
		if r.URL.Path == "/book/css/webFonts.css" {
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// stemRenderer writes one PDF page per SVG in srcDir. Page n is n*100
// points wide so the merged order can be read back.
func stemRenderer(t *testing.T) *mock.PageRenderer {
	t.Helper()
	return &mock.PageRenderer{
		RenderFn: func(ctx context.Context, srcDir, destDir string, p ebook2pdf.Progress) (int, error) {
			pages, err := filepath.Glob(filepath.Join(srcDir, "*.svg"))
			if err != nil {
				return 0, err
			}
			for _, src := range pages {
				stem := strings.TrimSuffix(filepath.Base(src), ".svg")
				n, err := strconv.Atoi(stem)
				if err != nil {
					return 0, err
				}
				doc := fpdf.NewCustom(&fpdf.InitType{
					UnitStr: "pt",
					Size:    fpdf.SizeType{Wd: float64(n * 100), Ht: 400},
				})
				doc.AddPage()
				if err := doc.OutputFileAndClose(filepath.Join(destDir, stem+".pdf")); err != nil {
					return 0, err
				}
			}
			return len(pages), nil
		},
	}
}

func TestRunner_Run_Pages(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name    string
		missing []int
		widths  []float64
		warns   int
	}{
		{name: "every page is delivered in order", widths: []float64{100, 200, 300}},
		{name: "a missing page is skipped with one warning", missing: []int{2}, widths: []float64{100, 300}, warns: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := ebookServer(t, tc.missing...)
			r := pipeline(t, ebook2pdf.NewConfig())
			r.Downloader = ebookhttp.NewDownloader()
			r.Renderer = stemRenderer(t)
			r.Assembler = pdfcpu.NewAssembler()
			live := &mock.LiveRecorder{}
			req := request()
			req.EntryURL = srv.URL + "/book/index.html"

			res := r.Run(context.Background(), req, live)

			require.NoError(t, res.Err)
			assert.Equal(t, ebook2pdf.JobDelivered, res.State)
			files := live.OfType("file")
			require.Len(t, files, 1)
			assert.Equal(t, "book.pdf", files[0].Filename)

			out := filepath.Join(t.TempDir(), files[0].Filename)
			require.NoError(t, os.WriteFile(out, files[0].Data, 0644))
			dims, err := api.PageDimsFile(out)
			require.NoError(t, err)
			widths := make([]float64, len(dims))
			for i, d := range dims {
				widths[i] = d.Width
			}
			assert.InDeltaSlice(t, tc.widths, widths, 0.5)

			var warns []string
			for _, m := range live.OfType("log") {
				if strings.HasPrefix(m.Value, "[WARN]") {
					warns = append(warns, m.Value)
				}
			}
			require.Len(t, warns, tc.warns)
			if tc.warns > 0 {
				assert.Contains(t, warns[0], "page&nbsp;2")
			}
			assert.Empty(t, live.OfType("error"))
		})
	}
}
