package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightManager owns the playwright driver, one Chromium process and a
// single browser context carrying the session cookies.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
}

// NewPlaywright starts the driver and a Chromium instance. Anything
// partially started is torn down before an error is returned.
func NewPlaywright(ctx context.Context, opts Options) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled", "--disable-dev-shm-usage"},
	}
	if opts.ExecPath != "" {
		launch.ExecutablePath = playwright.String(opts.ExecPath)
	}
	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	pm := &PlaywrightManager{pw: pw, browser: browser}
	bctx, err := pm.NewContext(opts.UserAgent, opts.Cookies)
	if err != nil {
		pm.Close()
		return nil, err
	}
	pm.bctx = bctx
	return pm, nil
}

// NewContext creates an isolated browser context with the given cookies.
func (pm *PlaywrightManager) NewContext(userAgent string, cookies []Cookie) (playwright.BrowserContext, error) {
	bctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1366, Height: 900},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if len(cookies) > 0 {
		pwCookies := make([]playwright.OptionalCookie, len(cookies))
		for i, c := range cookies {
			pwCookies[i] = c.ToPlaywright()
		}
		if err := bctx.AddCookies(pwCookies); err != nil {
			bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return bctx, nil
}

func (pm *PlaywrightManager) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := pm.bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", mapPlaywrightErr(err))
	}
	return &playwrightPage{page: page}, nil
}

// Close releases the context, the browser and the driver, in that order.
func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.bctx != nil {
		errs = append(errs, pm.bctx.Close())
	}
	if pm.browser != nil {
		errs = append(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = append(errs, pm.pw.Stop())
	}
	return errors.Join(errs...)
}

type playwrightPage struct {
	page playwright.Page
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func mapPlaywrightErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, playwright.ErrTargetClosed):
		return fmt.Errorf("%w: %v", ErrSessionClosed, err)
	case errors.Is(err, playwright.ErrTimeout):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func (p *playwrightPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   ms(timeout),
	})
	if err != nil && errors.Is(err, playwright.ErrTargetClosed) {
		return mapPlaywrightErr(err)
	}
	return err
}

func (p *playwrightPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
	return mapPlaywrightErr(err)
}

func (p *playwrightPage) ScrollToBottom(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// a short wheel first so lazy loaders see a real scroll event
	if err := p.page.Mouse().Wheel(0, 400); err != nil {
		return mapPlaywrightErr(err)
	}
	_, err := p.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return mapPlaywrightErr(err)
}

func (p *playwrightPage) Click(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	loc := p.page.Locator(selector).First()
	if visible, err := loc.IsVisible(); err != nil {
		return false, mapPlaywrightErr(err)
	} else if !visible {
		return false, nil
	}
	if err := loc.Click(playwright.LocatorClickOptions{
		Force:   playwright.Bool(true),
		Timeout: playwright.Float(3000),
	}); err != nil {
		err = mapPlaywrightErr(err)
		if errors.Is(err, ErrNotFound) {
			// detached between the visibility check and the click
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *playwrightPage) HTML(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	loc := p.page.Locator(selector).First()
	count, err := loc.Count()
	if err != nil {
		return "", mapPlaywrightErr(err)
	}
	if count == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	html, err := loc.InnerHTML(playwright.LocatorInnerHTMLOptions{Timeout: playwright.Float(5000)})
	return html, mapPlaywrightErr(err)
}

func (p *playwrightPage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	return html, mapPlaywrightErr(err)
}

func (p *playwrightPage) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	return buf, mapPlaywrightErr(err)
}

func (p *playwrightPage) Close() error {
	if err := p.page.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
		log.Printf("⚠️ Failed to close page: %v", err)
		return err
	}
	return nil
}
