package mock

import (
	"strings"
	"sync"

	"github.com/fwojciec/ebook2pdf"
)

var _ ebook2pdf.Progress = (*Progress)(nil)

// Progress is a mock implementation of ebook2pdf.Progress.
type Progress struct {
	EmitFn func(level ebook2pdf.Level, message string)
}

func (p *Progress) Emit(level ebook2pdf.Level, message string) {
	p.EmitFn(level, message)
}

var _ ebook2pdf.Progress = (*ProgressRecorder)(nil)

// ProgressEntry is one line captured by ProgressRecorder.
type ProgressEntry struct {
	Level   ebook2pdf.Level
	Message string
}

// ProgressRecorder is an ebook2pdf.Progress that keeps every emitted line.
type ProgressRecorder struct {
	mu      sync.Mutex
	entries []ProgressEntry
}

func (r *ProgressRecorder) Emit(level ebook2pdf.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, ProgressEntry{Level: level, Message: message})
}

// Entries returns a copy of the recorded lines.
func (r *ProgressRecorder) Entries() []ProgressEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ProgressEntry(nil), r.entries...)
}

// AtLevel returns the messages recorded at level.
func (r *ProgressRecorder) AtLevel(level ebook2pdf.Level) []string {
	var msgs []string
	for _, e := range r.Entries() {
		if e.Level == level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// Contains reports whether any recorded message at level contains substr.
func (r *ProgressRecorder) Contains(level ebook2pdf.Level, substr string) bool {
	for _, msg := range r.AtLevel(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
