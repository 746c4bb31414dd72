// Package progress renders job progress lines for the durable job log and
// the client's live channel.
package progress

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fwojciec/ebook2pdf"
)

// GenericErrorMessage is the only error text a client ever sees.
const GenericErrorMessage = "An error occurred. Please reload the page and try again."

// Ensure Logger implements ebook2pdf.Progress at compile time.
var _ ebook2pdf.Progress = (*Logger)(nil)

// Logger is the progress channel of one job. Every line is appended to the
// durable log and pushed to the live channel.
//
// A failing live channel never propagates to the caller: after the first
// failed send one error notice is attempted and the live channel is muted,
// while the durable log keeps receiving lines.
//
// Logger is safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	live   ebook2pdf.LiveChannel
	file   io.Writer
	logger *slog.Logger
	muted  bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithLogger mirrors every line to an operator logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		l.logger = logger
	}
}

// New returns a Logger writing to live and file.
func New(live ebook2pdf.LiveChannel, file io.Writer, opts ...Option) *Logger {
	l := &Logger{
		live:   live,
		file:   file,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Emit writes message to the durable log and the live channel.
func (l *Logger) Emit(level ebook2pdf.Level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.record(level, message)
	if l.muted {
		return
	}
	for _, line := range Lines(level, message) {
		if err := l.live.SendLog(Escape(line)); err != nil {
			l.fail(err)
			return
		}
	}
}

// Record writes message to the durable log only. Use it for diagnostics
// that must not reach the client.
func (l *Logger) Record(level ebook2pdf.Level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(level, message)
}

// Debugf emits a formatted debug line.
func (l *Logger) Debugf(format string, args ...any) {
	l.Emit(ebook2pdf.LevelDebug, fmt.Sprintf(format, args...))
}

// Infof emits a formatted info line.
func (l *Logger) Infof(format string, args ...any) {
	l.Emit(ebook2pdf.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf emits a formatted warning line.
func (l *Logger) Warnf(format string, args ...any) {
	l.Emit(ebook2pdf.LevelWarning, fmt.Sprintf(format, args...))
}

// Muted reports whether the live channel has failed.
func (l *Logger) Muted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.muted
}

// Must be called with mu held.
func (l *Logger) record(level ebook2pdf.Level, message string) {
	// Durable log write errors have nowhere left to go.
	_, _ = fmt.Fprintf(l.file, "[%s] %s\n", level.Code(), message)
	l.logger.Debug("progress", "level", level.String(), "message", message)
}

// Must be called with mu held.
func (l *Logger) fail(err error) {
	l.muted = true
	l.logger.Warn("live channel send failed", "err", err)
	_ = l.live.SendError(GenericErrorMessage)
}

// Lines splits message into the lines sent to the client. The first line
// carries the level tag; continuation lines are indented to align with it.
// Example: Lines(LevelInfo, "A\nB") → ["[INFO] A", "      B"]
func Lines(level ebook2pdf.Level, message string) []string {
	code := level.Code()
	parts := strings.Split(message, "\n")
	lines := make([]string, 0, len(parts))
	lines = append(lines, "["+code+"] "+parts[0])
	indent := strings.Repeat(" ", len(code)+2)
	for _, part := range parts[1:] {
		lines = append(lines, indent+part)
	}
	return lines
}

var escaper = strings.NewReplacer(" ", "&nbsp;", "\t", "&nbsp;&nbsp;&nbsp;&nbsp;")

// Escape strips trailing whitespace and escapes the rest so the client can
// render the line verbatim as HTML. Markup characters are escaped before
// whitespace.
func Escape(line string) string {
	return escaper.Replace(html.EscapeString(strings.TrimRight(line, " \t\r")))
}
