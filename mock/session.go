package mock

import (
	"context"
	"time"

	"github.com/fwojciec/ebook2pdf"
)

var _ ebook2pdf.SessionDriver = (*SessionDriver)(nil)

// SessionDriver is a mock implementation of ebook2pdf.SessionDriver.
type SessionDriver struct {
	NavigateFn      func(ctx context.Context, url string) error
	WaitClickableFn func(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (ebook2pdf.Element, error)
	WaitPresentFn   func(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (ebook2pdf.Element, error)
	CookiesFn       func(ctx context.Context) (map[string]string, error)
	ScreenshotFn    func(ctx context.Context, path string) error
	CloseFn         func() error
}

func (d *SessionDriver) Navigate(ctx context.Context, url string) error {
	return d.NavigateFn(ctx, url)
}

func (d *SessionDriver) WaitClickable(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (ebook2pdf.Element, error) {
	return d.WaitClickableFn(ctx, loc, timeout)
}

func (d *SessionDriver) WaitPresent(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (ebook2pdf.Element, error) {
	return d.WaitPresentFn(ctx, loc, timeout)
}

func (d *SessionDriver) Cookies(ctx context.Context) (map[string]string, error) {
	return d.CookiesFn(ctx)
}

func (d *SessionDriver) Screenshot(ctx context.Context, path string) error {
	return d.ScreenshotFn(ctx, path)
}

func (d *SessionDriver) Close() error {
	return d.CloseFn()
}

var _ ebook2pdf.Element = (*Element)(nil)

// Element is a mock implementation of ebook2pdf.Element.
type Element struct {
	SubmitFn func(text string) error
	ClickFn  func() error
	LinkFn   func() (string, error)
	TextFn   func() (string, error)
}

func (e *Element) Submit(text string) error {
	return e.SubmitFn(text)
}

func (e *Element) Click() error {
	return e.ClickFn()
}

func (e *Element) Link() (string, error) {
	return e.LinkFn()
}

func (e *Element) Text() (string, error) {
	return e.TextFn()
}

var _ ebook2pdf.Launcher = (*Launcher)(nil)

// Launcher is a mock implementation of ebook2pdf.Launcher.
type Launcher struct {
	LaunchFn func(ctx context.Context, opts ebook2pdf.LaunchOptions) (ebook2pdf.SessionDriver, error)
}

func (l *Launcher) Launch(ctx context.Context, opts ebook2pdf.LaunchOptions) (ebook2pdf.SessionDriver, error) {
	return l.LaunchFn(ctx, opts)
}

var _ ebook2pdf.SessionAcquirer = (*SessionAcquirer)(nil)

// SessionAcquirer is a mock implementation of ebook2pdf.SessionAcquirer.
type SessionAcquirer struct {
	AcquireFn func(ctx context.Context, req *ebook2pdf.JobRequest, screenshotDir string, p ebook2pdf.Progress) (*ebook2pdf.Session, error)
}

func (a *SessionAcquirer) Acquire(ctx context.Context, req *ebook2pdf.JobRequest, screenshotDir string, p ebook2pdf.Progress) (*ebook2pdf.Session, error) {
	return a.AcquireFn(ctx, req, screenshotDir, p)
}
