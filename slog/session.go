package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ebook2pdf"
)

// Ensure LoggingAcquirer implements ebook2pdf.SessionAcquirer.
var _ ebook2pdf.SessionAcquirer = (*LoggingAcquirer)(nil)

// LoggingAcquirer wraps a SessionAcquirer with logging. Credentials and
// cookie values are never logged.
type LoggingAcquirer struct {
	next   ebook2pdf.SessionAcquirer
	logger *slog.Logger
}

// NewLoggingAcquirer creates a new LoggingAcquirer.
func NewLoggingAcquirer(next ebook2pdf.SessionAcquirer, logger *slog.Logger) *LoggingAcquirer {
	return &LoggingAcquirer{next: next, logger: logger}
}

// Acquire delegates to the wrapped acquirer and logs the outcome.
func (a *LoggingAcquirer) Acquire(ctx context.Context, req *ebook2pdf.JobRequest, screenshotDir string, p ebook2pdf.Progress) (sess *ebook2pdf.Session, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"entry_url", req.EntryURL,
			"duration", time.Since(begin),
		}
		if sess != nil {
			attrs = append(attrs, "pages", sess.PageCount, "cookies", len(sess.Cookies))
		}
		if err != nil {
			attrs = append(attrs, "code", ebook2pdf.ErrorCode(err), "err", err)
		}
		a.logger.Info("acquire session", attrs...)
	}(time.Now())
	return a.next.Acquire(ctx, req, screenshotDir, p)
}
