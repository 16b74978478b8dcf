package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromedpBrowser drives Chrome over the DevTools protocol. It is the
// fallback for hosts where the playwright driver bundle is not installed.
type ChromedpBrowser struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	cookies       []Cookie
}

// NewChromedp starts Chrome. The browser lives until Close, independent of
// ctx; ctx only bounds the startup.
func NewChromedp(ctx context.Context, opts Options) (*ChromedpBrowser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1366, 900),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	b := &ChromedpBrowser{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		cookies:       opts.Cookies,
	}

	// The first Run on the browser context spawns the process, and a
	// timeout on that Run would take the process down with it.
	if err := startWithin(ctx, startTimeout, b.Close, browserCtx); err != nil {
		return nil, fmt.Errorf("could not start chrome: %w", err)
	}
	return b, nil
}

const startTimeout = 30 * time.Second

// startWithin makes the first Run on a chromedp context without attaching a
// deadline to it. Expiry of timeout or ctx calls abort instead.
func startWithin(ctx context.Context, timeout time.Duration, abort func() error, target context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(target, actions...) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil {
			abort()
		}
		return err
	case <-timer.C:
		abort()
		<-done
		return fmt.Errorf("%w after %s", context.DeadlineExceeded, timeout)
	case <-ctx.Done():
		abort()
		<-done
		return ctx.Err()
	}
}

func (b *ChromedpBrowser) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.browserCtx.Err() != nil {
		return nil, ErrSessionClosed
	}
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	p := &chromedpPage{ctx: tabCtx, cancel: tabCancel}
	// the tab's first Run creates the target and must not carry a deadline
	if err := startWithin(ctx, startTimeout, p.Close, tabCtx); err != nil {
		return nil, fmt.Errorf("could not create tab: %w", err)
	}
	if err := p.run(ctx, actionTimeout, setCookies(b.cookies)); err != nil {
		p.Close()
		return nil, fmt.Errorf("could not set cookies: %w", err)
	}
	return p, nil
}

func (b *ChromedpBrowser) Close() error {
	b.browserCancel()
	b.allocCancel()
	return nil
}

type chromedpPage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (p *chromedpPage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ctx.Err() != nil {
		return ErrSessionClosed
	}
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case p.ctx.Err() != nil:
		return fmt.Errorf("%w: %v", ErrSessionClosed, err)
	}
	return err
}

const actionTimeout = 10 * time.Second

func (p *chromedpPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	return p.run(ctx, timeout, chromedp.Navigate(url))
}

func (p *chromedpPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	err := p.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return err
}

func (p *chromedpPage) ScrollToBottom(ctx context.Context) error {
	var ok bool
	return p.run(ctx, actionTimeout,
		chromedp.Evaluate(`(window.scrollTo(0, document.body.scrollHeight), true)`, &ok))
}

func (p *chromedpPage) Click(ctx context.Context, selector string) (bool, error) {
	sel, _ := json.Marshal(selector)
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el || el.offsetParent === null) return false;
		el.click();
		return true;
	})()`, sel)
	var clicked bool
	if err := p.run(ctx, actionTimeout, chromedp.Evaluate(expr, &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

type htmlResult struct {
	Found bool   `json:"found"`
	HTML  string `json:"html"`
}

func (p *chromedpPage) HTML(ctx context.Context, selector string) (string, error) {
	sel, _ := json.Marshal(selector)
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		return el ? {found: true, html: el.innerHTML || ""} : {found: false, html: ""};
	})()`, sel)
	var res htmlResult
	if err := p.run(ctx, actionTimeout, chromedp.Evaluate(expr, &res)); err != nil {
		return "", err
	}
	if !res.Found {
		return "", fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return res.HTML, nil
}

func (p *chromedpPage) Content(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, actionTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *chromedpPage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := p.run(ctx, actionTimeout, chromedp.FullScreenshot(&buf, 90))
	return buf, err
}

func (p *chromedpPage) Close() error {
	p.cancel()
	return nil
}
