package fpdf_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/ebook2pdf"
	"github.com/fwojciec/ebook2pdf/fpdf"
	"github.com/fwojciec/ebook2pdf/mock"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Simulate(t *testing.T) {
	t.Parallel()

	t.Run("writes a one-page document", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "book.pdf")
		p := &mock.ProgressRecorder{}
		req := &ebook2pdf.JobRequest{EntryURL: "https://example.com/book/abc/index.html"}

		err := fpdf.NewSimulator(fpdf.WithDelay(0)).Simulate(context.Background(), req, out, p)

		require.NoError(t, err)
		count, err := api.PageCountFile(out)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.True(t, p.Contains(ebook2pdf.LevelInfo, "Download page 10/10."))
		assert.True(t, p.Contains(ebook2pdf.LevelInfo, req.EntryURL))
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		out := filepath.Join(t.TempDir(), "book.pdf")

		err := fpdf.NewSimulator(fpdf.WithDelay(time.Second)).Simulate(ctx, &ebook2pdf.JobRequest{}, out, &mock.ProgressRecorder{})

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NoFileExists(t, out)
	})

	t.Run("unwritable output is an assembly error", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "missing", "book.pdf")

		err := fpdf.NewSimulator(fpdf.WithDelay(0)).Simulate(context.Background(), &ebook2pdf.JobRequest{}, out, &mock.ProgressRecorder{})

		assert.Equal(t, ebook2pdf.EASSEMBLY, ebook2pdf.ErrorCode(err))
	})
}
