//go:build integration

package inkscape_test

import (
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ebook2pdf/exec"
	"github.com/fwojciec/ebook2pdf/inkscape"
	"github.com/fwojciec/ebook2pdf/mock"
	"github.com/fwojciec/ebook2pdf/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Integration(t *testing.T) {
	if _, err := osexec.LookPath(inkscape.DefaultCommand); err != nil {
		t.Skip("inkscape not installed")
	}

	src := t.TempDir()
	for _, name := range []string{"1.svg", "2.svg"} {
		svg := `<svg xmlns="http://www.w3.org/2000/svg" width="210mm" height="297mm"><text x="20" y="40">` + name + `</text></svg>`
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(svg), 0644))
	}
	pdfs := t.TempDir()
	p := &mock.ProgressRecorder{}

	n, err := inkscape.NewRenderer(exec.NewRunner()).Render(context.Background(), src, pdfs, p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := filepath.Join(t.TempDir(), "book.pdf")
	require.NoError(t, pdfcpu.NewAssembler().Assemble(context.Background(), pdfs, out, p))
	assert.FileExists(t, out)
}
