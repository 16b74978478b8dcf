package linkedin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-resume-analyzer/internal/browser"
)

// fakeDoc is one scripted URL.
type fakeDoc struct {
	html    string
	visible map[string]bool
	inner   map[string]string
	gotoErr error
	// the marker only shows from this navigation attempt on (1-based)
	renderAfter int
	// hang blocks WaitVisible until the context ends
	hang bool
}

type fakePage struct {
	docs    map[string]*fakeDoc
	current string
	gotos   map[string]int
	clicks  map[string]int
	scrolls int
	closed  bool
}

func newFakePage(docs map[string]*fakeDoc) *fakePage {
	return &fakePage{docs: docs, gotos: map[string]int{}, clicks: map[string]int{}}
}

func (p *fakePage) doc() *fakeDoc {
	return p.docs[p.current]
}

func (p *fakePage) Goto(ctx context.Context, url string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.closed {
		return browser.ErrSessionClosed
	}
	p.gotos[url]++
	d, ok := p.docs[url]
	if !ok {
		return fmt.Errorf("net::ERR_NAME_NOT_RESOLVED at %s", url)
	}
	if d.gotoErr != nil {
		return d.gotoErr
	}
	p.current = url
	return nil
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := p.doc()
	if d != nil && d.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	if d == nil || p.gotos[p.current] < d.renderAfter || !d.visible[selector] {
		return fmt.Errorf("%w: %s", browser.ErrNotFound, selector)
	}
	return nil
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error {
	if p.closed {
		return browser.ErrSessionClosed
	}
	p.scrolls++
	return ctx.Err()
}

func (p *fakePage) Click(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if d := p.doc(); d != nil && d.visible[selector] {
		p.clicks[selector]++
		return true, nil
	}
	return false, nil
}

func (p *fakePage) HTML(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if d := p.doc(); d != nil {
		if t, ok := d.inner[selector]; ok {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", browser.ErrNotFound, selector)
}

func (p *fakePage) Content(ctx context.Context) (string, error) {
	if d := p.doc(); d != nil {
		return d.html, ctx.Err()
	}
	return "", errors.New("no document loaded")
}

func (p *fakePage) Screenshot(context.Context) ([]byte, error) { return nil, nil }

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

type fakeBrowser struct {
	page   *fakePage
	closed bool
}

func (b *fakeBrowser) NewPage(context.Context) (browser.Page, error) { return b.page, nil }

func (b *fakeBrowser) Close() error {
	b.closed = true
	return nil
}

type card struct {
	company, title, location, href string
}

func resultsHTML(cards ...card) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><ul class="jobs-search__results-list">`)
	for _, c := range cards {
		sb.WriteString(`<li><div class="base-card">`)
		if c.href != "" {
			fmt.Fprintf(&sb, `<a class="base-card__full-link" href="%s"><span class="sr-only">%s</span></a>`, c.href, c.title)
		}
		fmt.Fprintf(&sb, `<div class="base-search-card__info">
			<h3 class="base-search-card__title">
				%s
			</h3>
			<h4 class="base-search-card__subtitle"><a>%s</a></h4>
			<div class="base-search-card__metadata"><span class="job-search-card__location">%s</span></div>
		</div>`, c.title, c.company, c.location)
		sb.WriteString(`</div></li>`)
	}
	sb.WriteString(`</ul></body></html>`)
	return sb.String()
}

func resultsDoc(cards ...card) *fakeDoc {
	sel := DefaultSelectors()
	return &fakeDoc{
		html:    resultsHTML(cards...),
		visible: map[string]bool{sel.ResultsLoaded: true},
	}
}

func detailDoc(description string) *fakeDoc {
	sel := DefaultSelectors()
	return &fakeDoc{
		visible: map[string]bool{sel.DetailLoaded: true},
		inner:   map[string]string{sel.Description: description},
	}
}

// brokenDetailDoc renders but has no description element.
func brokenDetailDoc() *fakeDoc {
	sel := DefaultSelectors()
	return &fakeDoc{visible: map[string]bool{sel.DetailLoaded: true}}
}

func testOptions() Options {
	return Options{
		BaseURL:               DefaultBaseURL,
		NavigationTimeout:     time.Second,
		MaxAttempts:           3,
		RevealRoundsPerResult: 1,
		MaxRevealRounds:       5,
	}
}
