// Package rod implements ebook2pdf.SessionDriver with headless Chrome
// through go-rod.
package rod

import (
	"context"
	"fmt"

	"github.com/fwojciec/ebook2pdf"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ScreenshotWindowSize is the window used when screenshots are enabled,
// large enough to capture every step of the login flow.
const ScreenshotWindowSize = "2048,4096"

// Ensure Launcher implements ebook2pdf.Launcher at compile time.
var _ ebook2pdf.Launcher = (*Launcher)(nil)

// Launcher starts one headless Chrome per session. Sessions share nothing,
// so concurrent jobs never see each other's cookies.
type Launcher struct {
	bin string
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithBin sets the Chrome binary. By default rod finds or downloads one.
func WithBin(path string) LauncherOption {
	return func(l *Launcher) {
		l.bin = path
	}
}

// NewLauncher returns a new Launcher.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts a browser with container-safe flags and opens a blank page.
// Returns an error if Chrome/Chromium cannot be found or launched.
func (l *Launcher) Launch(ctx context.Context, opts ebook2pdf.LaunchOptions) (ebook2pdf.SessionDriver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lnchr := launcher.New().
		Context(ctx).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		NoSandbox(true).
		Leakless(true).
		Headless(true)
	if l.bin != "" {
		lnchr = lnchr.Bin(l.bin)
	}
	if opts.Screenshots {
		lnchr = lnchr.Set("window-size", ScreenshotWindowSize)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if opts.Screenshots {
		// Keep the window size instead of rod's default laptop viewport.
		browser = browser.NoDefaultDevice()
	}
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		lnchr.Kill()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	return &Driver{browser: browser, launcher: lnchr, page: page}, nil
}
