package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ebook2pdf"
)

// Ensure LoggingLauncher implements ebook2pdf.Launcher.
var _ ebook2pdf.Launcher = (*LoggingLauncher)(nil)

// LoggingLauncher wraps a Launcher so every driver it returns logs its
// operations.
type LoggingLauncher struct {
	next   ebook2pdf.Launcher
	logger *slog.Logger
}

// NewLoggingLauncher creates a new LoggingLauncher.
func NewLoggingLauncher(next ebook2pdf.Launcher, logger *slog.Logger) *LoggingLauncher {
	return &LoggingLauncher{next: next, logger: logger}
}

// Launch logs the launch and wraps the returned driver.
func (l *LoggingLauncher) Launch(ctx context.Context, opts ebook2pdf.LaunchOptions) (_ ebook2pdf.SessionDriver, err error) {
	defer func(begin time.Time) {
		l.logger.Info("browser launch",
			"screenshots", opts.Screenshots,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	d, err := l.next.Launch(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewLoggingDriver(d, l.logger), nil
}

// Ensure LoggingDriver implements ebook2pdf.SessionDriver.
var _ ebook2pdf.SessionDriver = (*LoggingDriver)(nil)

// LoggingDriver wraps a SessionDriver with debug logging.
type LoggingDriver struct {
	next   ebook2pdf.SessionDriver
	logger *slog.Logger
}

// NewLoggingDriver creates a new LoggingDriver.
func NewLoggingDriver(next ebook2pdf.SessionDriver, logger *slog.Logger) *LoggingDriver {
	return &LoggingDriver{next: next, logger: logger}
}

// Navigate logs the URL being loaded and delegates to the wrapped driver.
func (d *LoggingDriver) Navigate(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		d.logger.Debug("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Navigate(ctx, url)
}

// WaitClickable logs the wait and delegates to the wrapped driver.
func (d *LoggingDriver) WaitClickable(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (_ ebook2pdf.Element, err error) {
	defer func(begin time.Time) {
		d.logger.Debug("wait clickable",
			"locator", loc.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.WaitClickable(ctx, loc, timeout)
}

// WaitPresent logs the wait and delegates to the wrapped driver.
func (d *LoggingDriver) WaitPresent(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (_ ebook2pdf.Element, err error) {
	defer func(begin time.Time) {
		d.logger.Debug("wait present",
			"locator", loc.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.WaitPresent(ctx, loc, timeout)
}

// Cookies logs how many cookies were exported. Values are never logged.
func (d *LoggingDriver) Cookies(ctx context.Context) (cookies map[string]string, err error) {
	defer func() {
		d.logger.Debug("cookies", "count", len(cookies), "err", err)
	}()
	return d.next.Cookies(ctx)
}

// Screenshot delegates to the wrapped driver.
func (d *LoggingDriver) Screenshot(ctx context.Context, path string) error {
	return d.next.Screenshot(ctx, path)
}

// Close delegates to the wrapped driver.
func (d *LoggingDriver) Close() error {
	return d.next.Close()
}
