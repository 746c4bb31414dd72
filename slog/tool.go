package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ebook2pdf"
)

// Ensure LoggingTool implements ebook2pdf.Tool.
var _ ebook2pdf.Tool = (*LoggingTool)(nil)

// LoggingTool wraps a Tool with logging of every command it runs.
type LoggingTool struct {
	next   ebook2pdf.Tool
	logger *slog.Logger
}

// NewLoggingTool creates a new LoggingTool.
func NewLoggingTool(next ebook2pdf.Tool, logger *slog.Logger) *LoggingTool {
	return &LoggingTool{next: next, logger: logger}
}

// Run delegates to the wrapped tool and logs the command and its exit code.
func (t *LoggingTool) Run(ctx context.Context, name string, args ...string) (result *ebook2pdf.ToolResult, err error) {
	defer func(begin time.Time) {
		exitCode := -1
		if result != nil {
			exitCode = result.ExitCode
		}
		t.logger.Debug("run command",
			"command", name,
			"args", args,
			"exit_code", exitCode,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Run(ctx, name, args...)
}
