// Package pdfcpu merges single-page PDF documents into one artifact with the
// pdfcpu library.
package pdfcpu

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fwojciec/ebook2pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Ensure Assembler implements ebook2pdf.Assembler at compile time.
var _ ebook2pdf.Assembler = (*Assembler)(nil)

// Assembler merges per-page documents in filename order. Input documents
// are validated in relaxed mode.
type Assembler struct{}

// NewAssembler creates a new Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// config returns a fresh configuration; pdfcpu mutates it during a merge.
func (a *Assembler) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Assemble merges every .pdf in pageDir into outputPath.
func (a *Assembler) Assemble(ctx context.Context, pageDir, outputPath string, p ebook2pdf.Progress) error {
	p.Emit(ebook2pdf.LevelInfo, "Merge the PDF pages into one PDF file.")

	if err := writableDir(filepath.Dir(outputPath)); err != nil {
		return err
	}

	pages, err := filepath.Glob(filepath.Join(pageDir, "*"+ebook2pdf.ArtifactExt))
	if err != nil {
		return ebook2pdf.WrapError(ebook2pdf.EASSEMBLY, err, "listing pages")
	}
	if len(pages) == 0 {
		return ebook2pdf.Errorf(ebook2pdf.EASSEMBLY, "no pages to assemble")
	}
	sort.Strings(pages)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := api.MergeCreateFile(pages, outputPath, false, a.config()); err != nil {
		return ebook2pdf.WrapError(ebook2pdf.EASSEMBLY, err, "merging %d pages", len(pages))
	}

	count, err := api.PageCountFile(outputPath)
	if err != nil {
		return ebook2pdf.WrapError(ebook2pdf.EASSEMBLY, err, "reading merged document")
	}
	p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Merged %d pages into '%s'.", count, filepath.Base(outputPath)))
	return nil
}

// writableDir returns EASSEMBLY unless dir is an existing, writable
// directory.
func writableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return ebook2pdf.WrapError(ebook2pdf.EASSEMBLY, err, "output directory %q", dir)
	}
	if !info.IsDir() {
		return ebook2pdf.Errorf(ebook2pdf.EASSEMBLY, "output path %q is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".assemble-*")
	if err != nil {
		return ebook2pdf.WrapError(ebook2pdf.EASSEMBLY, err, "output directory %q is not writable", dir)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
