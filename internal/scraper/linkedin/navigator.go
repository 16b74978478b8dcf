package linkedin

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-resume-analyzer/internal/browser"
)

// ErrNavigationTimeout is matched by every *NavigationError.
var ErrNavigationTimeout = errors.New("page did not render in time")

// NavigationError reports a URL whose marker never appeared within the
// retry budget.
type NavigationError struct {
	URL      string
	Marker   string
	Attempts int
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("open %s: marker %q not rendered after %d attempts: %v", e.URL, e.Marker, e.Attempts, e.Err)
}

func (e *NavigationError) Unwrap() []error {
	return []error{ErrNavigationTimeout, e.Err}
}

// RevealStats counts what a RevealMore call actually did.
type RevealStats struct {
	Rounds              int
	InterstitialsClosed int
	LoadMoreClicks      int
}

// Navigator gets a page into a rendered state before anything reads it.
type Navigator struct {
	page browser.Page
	sel  Selectors
	opts Options
}

func NewNavigator(page browser.Page, sel Selectors, opts Options) *Navigator {
	return &Navigator{page: page, sel: sel, opts: opts.withDefaults()}
}

// Page returns the page the navigator drives.
func (n *Navigator) Page() browser.Page {
	return n.page
}

// fatal reports errors that make further attempts on this session pointless.
func fatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, browser.ErrSessionClosed)
}

// Open navigates to url and waits for marker to become visible, retrying
// with exponential backoff up to Options.MaxAttempts.
func (n *Navigator) Open(ctx context.Context, url, marker string) error {
	backoff := n.opts.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= n.opts.MaxAttempts; attempt++ {
		err := n.page.Goto(ctx, url, n.opts.NavigationTimeout)
		if err == nil {
			err = n.page.WaitVisible(ctx, marker, n.opts.NavigationTimeout)
			if err == nil {
				return nil
			}
		}
		if fatal(ctx, err) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		lastErr = err
		log.Printf("    ⏳ %s not ready (attempt %d/%d): %v", url, attempt, n.opts.MaxAttempts, err)

		if attempt < n.opts.MaxAttempts {
			if err := browser.Sleep(ctx, backoff); err != nil {
				return err
			}
			backoff *= 2
			if backoff > n.opts.MaxBackoff {
				backoff = n.opts.MaxBackoff
			}
		}
	}

	n.opts.Debugger.CaptureAndLog(ctx, n.page, "linkedin-navigation", "🚨 LinkedIn: page never rendered "+url)
	return &NavigationError{URL: url, Marker: marker, Attempts: n.opts.MaxAttempts, Err: lastErr}
}

// TryClick clicks selector if it is present. Absence and non-fatal click
// failures are reported as (false, nil); only a dead session or a cancelled
// context is returned as an error.
func (n *Navigator) TryClick(ctx context.Context, selector string) (bool, error) {
	clicked, err := n.page.Click(ctx, selector)
	if err == nil {
		return clicked, nil
	}
	if fatal(ctx, err) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, err
	}
	log.Printf("    ⚠️ Optional click on %q failed: %v", selector, err)
	return false, nil
}

// RevealMore runs up to rounds rounds of scroll, dismiss interstitial, click
// "load more". Missing controls are normal page variation.
func (n *Navigator) RevealMore(ctx context.Context, rounds int) (RevealStats, error) {
	var stats RevealStats
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := n.page.ScrollToBottom(ctx); err != nil {
			if fatal(ctx, err) {
				return stats, err
			}
			log.Printf("    ⚠️ Scroll failed: %v", err)
		}
		if err := browser.Sleep(ctx, n.opts.ScrollPause); err != nil {
			return stats, err
		}

		dismissed, err := n.TryClick(ctx, n.sel.Interstitial)
		if err != nil {
			return stats, err
		}
		if dismissed {
			stats.InterstitialsClosed++
		}

		loaded, err := n.TryClick(ctx, n.sel.LoadMore)
		if err != nil {
			return stats, err
		}
		if loaded {
			stats.LoadMoreClicks++
		}
		stats.Rounds++
	}
	return stats, nil
}
