package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// Mobile profile matching a 375x812 iPhone 13 viewport. The site serves its
// mobile UI off the user agent, so the whole automation is written against
// the mobile selectors.
var mobileProfile = device.Info{
	Name:      "iPhone 13",
	UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1",
	Width:     375,
	Height:    812,
	Scale:     3.0,
	Landscape: false,
	Mobile:    true,
	Touch:     true,
}

const defaultOpTimeout = 30 * time.Second

// SessionConfig holds the geolocation granted to the page.
type SessionConfig struct {
	Latitude  float64
	Longitude float64
	// Timeout is the default wait budget per page operation.
	// Zero means 30s.
	Timeout time.Duration
}

// Session owns one headless Chrome instance with a single tab, configured
// for mobile emulation with geolocation permission. Not safe for concurrent
// use: one logical operation in flight at a time.
type Session struct {
	cfg SessionConfig

	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
	tabCtx      context.Context
}

// NewSession returns an unopened session. Open must be called before Page.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultOpTimeout
	}
	return &Session{cfg: cfg}
}

// Open launches the browser, creates the emulated tab and grants
// geolocation. On any failure the partially-created resources are released
// and the returned error wraps ErrSessionInit.
func (s *Session) Open() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-notifications", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	err := chromedp.Run(tabCtx,
		chromedp.Emulate(mobileProfile),
		cdpbrowser.GrantPermissions([]cdpbrowser.PermissionType{cdpbrowser.PermissionTypeGeolocation}),
		emulation.SetGeolocationOverride().
			WithLatitude(s.cfg.Latitude).
			WithLongitude(s.cfg.Longitude).
			WithAccuracy(100),
	)
	if err != nil {
		tabCancel()
		allocCancel()
		return fmt.Errorf("%w: %v", ErrSessionInit, err)
	}

	s.allocCancel = allocCancel
	s.tabCancel = tabCancel
	s.tabCtx = tabCtx

	slog.Info("Browser session opened",
		"viewport", fmt.Sprintf("%dx%d", mobileProfile.Width, mobileProfile.Height),
		"latitude", s.cfg.Latitude,
		"longitude", s.cfg.Longitude)
	return nil
}

// Page returns the session's single page. Open must have succeeded.
func (s *Session) Page() Page {
	return &chromePage{tab: s.tabCtx, timeout: s.cfg.Timeout}
}

// Close releases the tab then the browser, independently. Never returns an
// error: teardown failures are logged and swallowed, a failed tab release
// does not prevent the browser release.
func (s *Session) Close() {
	if s.tabCtx != nil {
		if err := chromedp.Cancel(s.tabCtx); err != nil {
			slog.Error("Error during tab cleanup", "error", err)
		}
		s.tabCtx = nil
	}
	if s.tabCancel != nil {
		s.tabCancel()
		s.tabCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	slog.Info("Browser session closed")
}
