// Package browser wraps the browser automation drivers behind the small
// navigate, wait, scroll, click and read capabilities the scrapers need.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-resume-analyzer/internal/config"
)

var (
	// ErrNotFound reports that a selector matched nothing (or never became
	// visible within the wait). It is the expected failure of an optional
	// or not-yet-rendered element and never means the session is broken.
	ErrNotFound = errors.New("element not found")

	// ErrSessionClosed reports that the page, tab or browser process is gone.
	// Nothing on the same session can succeed after it.
	ErrSessionClosed = errors.New("browser session closed")
)

// Page is one browser tab.
type Page interface {
	// Goto navigates and returns once the DOM content is loaded.
	Goto(ctx context.Context, url string, timeout time.Duration) error
	// WaitVisible blocks until selector is visible, or returns ErrNotFound
	// once timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	ScrollToBottom(ctx context.Context) error
	// Click clicks the first element matching selector. An absent element
	// is reported as (false, nil).
	Click(ctx context.Context, selector string) (bool, error)
	// HTML returns the inner markup of the first match or ErrNotFound.
	HTML(ctx context.Context, selector string) (string, error)
	// Content returns the serialized DOM of the whole document.
	Content(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Browser owns a browser process and hands out pages.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Launcher starts a fresh Browser. Every pipeline run launches its own.
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context) (Browser, error)

func (f LauncherFunc) Launch(ctx context.Context) (Browser, error) { return f(ctx) }

const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Options configures a Launcher.
type Options struct {
	Driver    string
	Headless  bool
	UserAgent string
	// ExecPath points at a Chrome/Chromium binary. Empty lets the driver
	// discover one.
	ExecPath string
	Cookies  []Cookie
}

// NewLauncher returns the launcher for opts.Driver.
func NewLauncher(opts Options) (Launcher, error) {
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverPlaywright:
		return LauncherFunc(func(ctx context.Context) (Browser, error) {
			return NewPlaywright(ctx, opts)
		}), nil
	case DriverChromedp:
		return LauncherFunc(func(ctx context.Context) (Browser, error) {
			return NewChromedp(ctx, opts)
		}), nil
	default:
		return nil, fmt.Errorf("unsupported browser driver %q", opts.Driver)
	}
}

// OptionsFromConfig maps the browser section of the config file and loads
// the cookie export it points at.
func OptionsFromConfig(cfg config.BrowserConfig) (Options, error) {
	opts := Options{
		Driver:    cfg.Driver,
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
		ExecPath:  cfg.ExecPath,
	}
	if cfg.CookiesPath != "" {
		cookies, err := LoadCookies(cfg.CookiesPath)
		if err != nil {
			return opts, fmt.Errorf("load cookies from %s: %w", cfg.CookiesPath, err)
		}
		opts.Cookies = cookies
	}
	return opts, nil
}
