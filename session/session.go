// Package session logs in to the ebook site and harvests the cookies and
// page count needed to download an ebook directly.
//
// The locators below track the remote site's current markup. When the site
// changes, this is the file to update.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/fwojciec/ebook2pdf"
)

// Locators of the login flow.
var (
	UsernameField     = ebook2pdf.ID("j_username")
	PasswordField     = ebook2pdf.ID("password")
	ConsentReject     = ebook2pdf.ID("truste-consent-required")
	BrowseContentLink = ebook2pdf.LinkText("Browse content")
	DestinationMarker = ebook2pdf.ID("bizx-shared-header")
	ProgressIndicator = ebook2pdf.ID("progressIndicator")
)

// Ensure Acquirer implements ebook2pdf.SessionAcquirer at compile time.
var _ ebook2pdf.SessionAcquirer = (*Acquirer)(nil)

// Acquirer drives a browser session through the login flow.
type Acquirer struct {
	launcher ebook2pdf.Launcher
	loginURL string
	timeout  time.Duration
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithLoginURL sets the page the login flow starts from.
func WithLoginURL(u string) Option {
	return func(a *Acquirer) {
		a.loginURL = u
	}
}

// WithTimeout sets the bound of every wait for remote UI state.
// Defaults to ebook2pdf.DefaultSessionTimeout (90s).
func WithTimeout(d time.Duration) Option {
	return func(a *Acquirer) {
		a.timeout = d
	}
}

// NewAcquirer returns an Acquirer starting browser sessions with launcher.
func NewAcquirer(launcher ebook2pdf.Launcher, opts ...Option) *Acquirer {
	a := &Acquirer{
		launcher: launcher,
		loginURL: ebook2pdf.DefaultLoginURL,
		timeout:  ebook2pdf.DefaultSessionTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire logs in with the request's credentials, loads the entry URL and
// returns its cookies and page count. The browser is closed before Acquire
// returns.
func (a *Acquirer) Acquire(ctx context.Context, req *ebook2pdf.JobRequest, screenshotDir string, p ebook2pdf.Progress) (_ *ebook2pdf.Session, err error) {
	driver, err := a.launcher.Launch(ctx, ebook2pdf.LaunchOptions{Screenshots: screenshotDir != ""})
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	defer func() {
		p.Emit(ebook2pdf.LevelInfo, "Close the browser.")
		if cerr := driver.Close(); cerr != nil && err == nil {
			p.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Error closing the browser: %v", cerr))
		}
	}()

	f := &flow{driver: driver, timeout: a.timeout, screenshotDir: screenshotDir, progress: p}

	if err := driver.Navigate(ctx, a.loginURL); err != nil {
		return nil, fmt.Errorf("loading login page: %w", err)
	}

	p.Emit(ebook2pdf.LevelInfo, "Enter username and confirm.")
	if err := f.submit(ctx, UsernameField, req.Username); err != nil {
		return nil, err
	}

	p.Emit(ebook2pdf.LevelInfo, "Enter password and confirm.")
	if err := f.submit(ctx, PasswordField, req.Password); err != nil {
		return nil, err
	}

	p.Emit(ebook2pdf.LevelInfo, "Click the 'Reject All' button.")
	if err := f.click(ctx, ConsentReject); err != nil {
		return nil, err
	}

	// The link opens a new tab; following its target keeps us in one page.
	p.Emit(ebook2pdf.LevelInfo, "Click the 'Browse content' button.")
	if err := f.follow(ctx, BrowseContentLink); err != nil {
		return nil, err
	}
	if _, err := f.waitPresent(ctx, DestinationMarker); err != nil {
		if ebook2pdf.ErrorCode(err) == ebook2pdf.ETIMEOUT {
			return nil, ebook2pdf.WrapError(ebook2pdf.EMARKUP, err, "destination marker %s never appeared", DestinationMarker)
		}
		return nil, err
	}

	// Loading the entry URL makes the site issue the remaining content
	// cookies.
	p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("Load the ebook's index.html: '%s'.", req.EntryURL))
	if err := driver.Navigate(ctx, req.EntryURL); err != nil {
		return nil, fmt.Errorf("loading entry URL: %w", err)
	}
	f.snapshot(ctx)

	p.Emit(ebook2pdf.LevelInfo, "Export the cookies.")
	cookies, err := driver.Cookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting cookies: %w", err)
	}

	p.Emit(ebook2pdf.LevelInfo, "Retrieve the number of pages.")
	el, err := f.waitClickable(ctx, ProgressIndicator)
	if err != nil {
		return nil, err
	}
	text, err := el.Text()
	if err != nil {
		return nil, fmt.Errorf("reading page indicator: %w", err)
	}
	pageCount, err := ParsePageCount(text)
	if err != nil {
		return nil, err
	}
	p.Emit(ebook2pdf.LevelInfo, fmt.Sprintf("The ebook has %d pages.", pageCount))

	return &ebook2pdf.Session{Cookies: cookies, PageCount: pageCount}, nil
}

var firstIntRe = regexp.MustCompile(`[0-9]+`)

// ParsePageCount returns the first integer in the page indicator's text.
// Example: "/ 450" → 450
func ParsePageCount(text string) (int, error) {
	m := firstIntRe.FindString(text)
	if m == "" {
		return 0, ebook2pdf.Errorf(ebook2pdf.EPAGECOUNT, "no page count in indicator text %q", text)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, ebook2pdf.WrapError(ebook2pdf.EPAGECOUNT, err, "page count %q out of range", m)
	}
	if n < 1 {
		return 0, ebook2pdf.Errorf(ebook2pdf.EPAGECOUNT, "page count %d in indicator text %q", n, text)
	}
	return n, nil
}

// flow holds the state shared by the steps of one login.
type flow struct {
	driver        ebook2pdf.SessionDriver
	timeout       time.Duration
	screenshotDir string
	progress      ebook2pdf.Progress
	shots         int
}

func (f *flow) waitClickable(ctx context.Context, loc ebook2pdf.Locator) (ebook2pdf.Element, error) {
	el, err := f.driver.WaitClickable(ctx, loc, f.timeout)
	if err != nil {
		return nil, waitError(err, loc, "clickable")
	}
	f.snapshot(ctx)
	return el, nil
}

func (f *flow) waitPresent(ctx context.Context, loc ebook2pdf.Locator) (ebook2pdf.Element, error) {
	el, err := f.driver.WaitPresent(ctx, loc, f.timeout)
	if err != nil {
		return nil, waitError(err, loc, "present")
	}
	f.snapshot(ctx)
	return el, nil
}

func (f *flow) submit(ctx context.Context, loc ebook2pdf.Locator, text string) error {
	el, err := f.waitClickable(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Submit(text); err != nil {
		return fmt.Errorf("submitting %s: %w", loc, err)
	}
	return nil
}

func (f *flow) click(ctx context.Context, loc ebook2pdf.Locator) error {
	el, err := f.waitClickable(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("clicking %s: %w", loc, err)
	}
	return nil
}

func (f *flow) follow(ctx context.Context, loc ebook2pdf.Locator) error {
	el, err := f.waitClickable(ctx, loc)
	if err != nil {
		return err
	}
	target, err := el.Link()
	if err != nil {
		return fmt.Errorf("reading target of %s: %w", loc, err)
	}
	if target == "" {
		return ebook2pdf.Errorf(ebook2pdf.EMARKUP, "%s has no target", loc)
	}
	if err := f.driver.Navigate(ctx, target); err != nil {
		return fmt.Errorf("following %s: %w", loc, err)
	}
	return nil
}

// snapshot stores the next numbered screenshot when screenshots are on.
func (f *flow) snapshot(ctx context.Context) {
	if f.screenshotDir == "" {
		return
	}
	path := filepath.Join(f.screenshotDir, fmt.Sprintf("%03d.png", f.shots))
	f.shots++
	if err := f.driver.Screenshot(ctx, path); err != nil {
		f.progress.Emit(ebook2pdf.LevelWarning, fmt.Sprintf("Error taking screenshot '%s': %v", path, err))
	}
}

// waitError keeps ETIMEOUT from the driver and names the locator.
func waitError(err error, loc ebook2pdf.Locator, state string) error {
	if ebook2pdf.ErrorCode(err) == ebook2pdf.ETIMEOUT || errors.Is(err, context.DeadlineExceeded) {
		return ebook2pdf.WrapError(ebook2pdf.ETIMEOUT, err, "%s never became %s", loc, state)
	}
	return fmt.Errorf("waiting for %s: %w", loc, err)
}
