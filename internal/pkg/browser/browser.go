// Package browser owns the headless browser session and exposes the small
// set of page primitives the automation is built from: navigate, wait for a
// selector, enumerate elements, click, fill, read text, screenshot. Any
// engine exposing this capability set is substitutable; the production
// implementation drives Chrome through chromedp.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrSessionInit marks a failure to create the browser session. Fatal for
// the run; callers must not assume partial session state is usable.
var ErrSessionInit = errors.New("browser session init failed")

// ErrElementNotFound marks an expected element that never appeared within
// the wait timeout.
var ErrElementNotFound = errors.New("element not found")

// Element is a handle to a single DOM element discovered on the page.
type Element interface {
	// Text returns the element's rendered text content.
	Text(ctx context.Context) (string, error)
	// Click dispatches a click on the element.
	Click(ctx context.Context) error
	// Query finds the first descendant matching selector, or nil when absent.
	Query(ctx context.Context, selector string) (Element, error)
	// QueryAll finds all descendants matching selector; an empty result is
	// not an error.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// Screenshot captures just this element's region to path.
	Screenshot(ctx context.Context, path string) error
}

// Page is the browser-control surface consumed by the UI automation.
type Page interface {
	// Navigate loads url in the page.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until an element matching selector is visible,
	// up to timeout (the session default when timeout is zero), and
	// returns it. Absence yields an error wrapping ErrElementNotFound.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	// Query finds the first element matching selector, or nil when absent.
	Query(ctx context.Context, selector string) (Element, error)
	// QueryAll finds all elements matching selector; empty is not an error.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string) error
	// Fill types value into the first element matching selector.
	Fill(ctx context.Context, selector, value string) error
	// WaitReady waits for the current navigation to settle.
	WaitReady(ctx context.Context) error
	// Screenshot captures the viewport, or the whole page when fullPage.
	Screenshot(ctx context.Context, path string, fullPage bool) error
}
