package rod

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ebook2pdf"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Driver implements ebook2pdf.SessionDriver at compile time.
var _ ebook2pdf.SessionDriver = (*Driver)(nil)

// Driver drives a single page of a browser owned by this session.
type Driver struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	mu       sync.Mutex
	closed   atomic.Bool
}

// Navigate loads url and waits for the load event.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if d.closed.Load() {
		return ebook2pdf.Errorf(ebook2pdf.EINVALID, "driver closed")
	}
	page := d.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// WaitClickable waits until the element is visible and enabled.
func (d *Driver) WaitClickable(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (ebook2pdf.Element, error) {
	el, err := d.find(ctx, loc, timeout)
	if err != nil {
		return nil, err
	}
	if err := el.WaitVisible(); err != nil {
		return nil, waitErr(err, loc)
	}
	if err := el.WaitEnabled(); err != nil {
		return nil, waitErr(err, loc)
	}
	return &Element{el: el.CancelTimeout()}, nil
}

// WaitPresent waits until the element exists in the DOM.
func (d *Driver) WaitPresent(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (ebook2pdf.Element, error) {
	el, err := d.find(ctx, loc, timeout)
	if err != nil {
		return nil, err
	}
	return &Element{el: el.CancelTimeout()}, nil
}

func (d *Driver) find(ctx context.Context, loc ebook2pdf.Locator, timeout time.Duration) (*rod.Element, error) {
	if d.closed.Load() {
		return nil, ebook2pdf.Errorf(ebook2pdf.EINVALID, "driver closed")
	}
	page := d.page.Context(ctx).Timeout(timeout)

	var el *rod.Element
	var err error
	switch loc.Kind {
	case ebook2pdf.ByID:
		el, err = page.Element("#" + loc.Value)
	case ebook2pdf.ByLinkText:
		el, err = page.ElementR("a", "^\\s*"+regexp.QuoteMeta(loc.Value)+"\\s*$")
	default:
		return nil, ebook2pdf.Errorf(ebook2pdf.EINVALID, "unknown locator kind %d", loc.Kind)
	}
	if err != nil {
		return nil, waitErr(err, loc)
	}
	return el, nil
}

// Cookies returns every cookie held by the browser, not only those of the
// current page.
func (d *Driver) Cookies(ctx context.Context) (map[string]string, error) {
	if d.closed.Load() {
		return nil, ebook2pdf.Errorf(ebook2pdf.EINVALID, "driver closed")
	}
	cookies, err := d.browser.Context(ctx).GetCookies()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(cookies))
	for _, c := range cookies {
		m[c.Name] = c.Value
	}
	return m, nil
}

// Screenshot writes a PNG of the current viewport to path.
func (d *Driver) Screenshot(ctx context.Context, path string) error {
	if d.closed.Load() {
		return ebook2pdf.Errorf(ebook2pdf.EINVALID, "driver closed")
	}
	data, err := d.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Close shuts down the browser and kills its process. Close is safe to call
// multiple times.
func (d *Driver) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
	}
	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser, or 0 once the driver
// is closed.
func (d *Driver) LauncherPID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.launcher == nil {
		return 0
	}
	return d.launcher.PID()
}

func waitErr(err error, loc ebook2pdf.Locator) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ebook2pdf.WrapError(ebook2pdf.ETIMEOUT, err, "timed out waiting for %s", loc)
	}
	return fmt.Errorf("waiting for %s: %w", loc, err)
}

// Ensure Element implements ebook2pdf.Element at compile time.
var _ ebook2pdf.Element = (*Element)(nil)

// Element wraps a rod element.
type Element struct {
	el *rod.Element
}

// Submit types text and presses Enter.
func (e *Element) Submit(text string) error {
	if err := e.el.Input(text); err != nil {
		return err
	}
	return e.el.Type(input.Enter)
}

// Click left-clicks the element once.
func (e *Element) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

// Link returns the element's href property, which the browser has already
// resolved against the page URL.
func (e *Element) Link() (string, error) {
	v, err := e.el.Property("href")
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Text returns the element's visible text.
func (e *Element) Text() (string, error) {
	return e.el.Text()
}
