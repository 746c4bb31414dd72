// Package fs manages the per-job workspace directory tree on the local
// filesystem.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Workspace layout.
const (
	ScreenshotDir = "screenshots"
	SVGDir        = "svgs"
	PDFDir        = "pdfs"
	FontDir       = "fonts"
	LogName       = "log"
	Prefix        = "ebook2pdf-"
)

// Workspace is a directory tree created for, and owned by, a single job.
type Workspace struct {
	root string
	log  *os.File
}

// CreateWorkspace creates a fresh workspace under baseDir named
// ebook2pdf-<timestamp>-<random> with its fixed subdirectories and opens
// the log file.
func CreateWorkspace(baseDir string, now time.Time) (*Workspace, error) {
	stamp := strings.ReplaceAll(now.UTC().Format(time.RFC3339), ":", "")
	root, err := os.MkdirTemp(baseDir, Prefix+stamp+"-")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	for _, dir := range []string{ScreenshotDir, SVGDir, PDFDir, FontDir} {
		if err := os.Mkdir(filepath.Join(root, dir), 0755); err != nil {
			_ = os.RemoveAll(root)
			return nil, fmt.Errorf("creating workspace: %w", err)
		}
	}

	log, err := os.Create(filepath.Join(root, LogName))
	if err != nil {
		_ = os.RemoveAll(root)
		return nil, fmt.Errorf("opening workspace log: %w", err)
	}

	return &Workspace{root: root, log: log}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.root }

// ScreenshotDir returns the directory for browser screenshots.
func (w *Workspace) ScreenshotDir() string { return filepath.Join(w.root, ScreenshotDir) }

// SVGDir returns the directory for downloaded pages.
func (w *Workspace) SVGDir() string { return filepath.Join(w.root, SVGDir) }

// PDFDir returns the directory for rendered pages.
func (w *Workspace) PDFDir() string { return filepath.Join(w.root, PDFDir) }

// FontDir returns the directory for downloaded and transcoded fonts.
func (w *Workspace) FontDir() string { return filepath.Join(w.root, FontDir) }

// Path returns name joined to the workspace root.
func (w *Workspace) Path(name string) string { return filepath.Join(w.root, name) }

// Log returns the open log file.
func (w *Workspace) Log() *os.File { return w.log }

// CloseLog closes the log file. It is safe to call more than once.
func (w *Workspace) CloseLog() error {
	if w.log == nil {
		return nil
	}
	err := w.log.Close()
	w.log = nil
	return err
}

// Remove closes the log file and deletes the workspace.
func (w *Workspace) Remove() error {
	_ = w.CloseLog()
	return os.RemoveAll(w.root)
}
