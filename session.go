package ebook2pdf

import (
	"context"
	"time"
)

// Session is the authenticated state harvested by a SessionAcquirer.
// It lives for one job and is read-only once produced.
type Session struct {
	Cookies   map[string]string
	PageCount int
}

// LocatorKind selects how a Locator matches an element.
type LocatorKind int

// LocatorKind constants.
const (
	ByID LocatorKind = iota
	ByLinkText
)

// Locator identifies an element on a remote page.
type Locator struct {
	Kind  LocatorKind
	Value string
}

// ID returns a Locator matching the element with the given id attribute.
func ID(id string) Locator { return Locator{Kind: ByID, Value: id} }

// LinkText returns a Locator matching an anchor by its visible text.
func LinkText(text string) Locator { return Locator{Kind: ByLinkText, Value: text} }

// String returns a human-readable form of the locator.
func (l Locator) String() string {
	if l.Kind == ByLinkText {
		return "link " + `"` + l.Value + `"`
	}
	return "#" + l.Value
}

// Element is an element found by a SessionDriver.
type Element interface {
	// Submit types text into the element and presses Enter.
	Submit(text string) error

	// Click clicks the element.
	Click() error

	// Link returns the element's resolved href.
	Link() (string, error)

	// Text returns the element's visible text.
	Text() (string, error)
}

// SessionDriver drives one remote browser session.
// Implementations isolate the browser so the login flow can be tested
// without one.
type SessionDriver interface {
	// Navigate loads url and waits for the page to load.
	Navigate(ctx context.Context, url string) error

	// WaitClickable waits until the element is visible and enabled.
	// Returns an ETIMEOUT error when timeout elapses first.
	WaitClickable(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)

	// WaitPresent waits until the element exists in the DOM.
	// Returns an ETIMEOUT error when timeout elapses first.
	WaitPresent(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)

	// Cookies returns every cookie the browser holds as name → value.
	Cookies(ctx context.Context) (map[string]string, error)

	// Screenshot writes a PNG of the current page to path.
	Screenshot(ctx context.Context, path string) error

	// Close terminates the browser session. Safe to call more than once.
	Close() error
}

// LaunchOptions configures a new browser session.
type LaunchOptions struct {
	// Large window so screenshots capture the whole login flow.
	Screenshots bool
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (SessionDriver, error)
}

// SessionAcquirer logs in and returns the session for one ebook.
// When screenshotDir is not empty a screenshot is stored after every step.
type SessionAcquirer interface {
	Acquire(ctx context.Context, req *JobRequest, screenshotDir string, p Progress) (*Session, error)
}
