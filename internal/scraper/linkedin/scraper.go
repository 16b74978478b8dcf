// Package linkedin acquires job listings from the LinkedIn guest job search:
// load the results page, reveal more results, extract the cards, filter them
// and fetch a description for the survivors.
package linkedin

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-resume-analyzer/internal/browser"
	"go-resume-analyzer/internal/cleaner"
	"go-resume-analyzer/internal/filter"
	"go-resume-analyzer/internal/scraper"
)

// errRunTimeout is the cause attached to the Options.RunTimeout deadline.
var errRunTimeout = errors.New("run timeout reached")

type LinkedInScraper struct {
	launcher browser.Launcher
	sel      Selectors
	opts     Options
	cleaner  *cleaner.Cleaner
}

func NewLinkedInScraper(launcher browser.Launcher, sel Selectors, opts Options) *LinkedInScraper {
	return &LinkedInScraper{
		launcher: launcher,
		sel:      sel,
		opts:     opts.withDefaults(),
		cleaner:  cleaner.New(),
	}
}

func (s *LinkedInScraper) Name() string {
	return "LinkedIn"
}

// Search runs the whole pipeline on a browser of its own, closed on every
// return path.
func (s *LinkedInScraper) Search(ctx context.Context, c scraper.SearchCriteria, within scraper.PostedWithin) (*scraper.Result, error) {
	if len(c.Phrases) == 0 {
		return nil, scraper.ErrNoTitles
	}
	if c.Count < 1 {
		return nil, scraper.ErrInvalidCount
	}
	if s.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, s.opts.RunTimeout, errRunTimeout)
		defer cancel()
	}

	b, err := s.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser: %v", err)
		}
	}()

	page, err := b.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	return s.run(ctx, page, c, within)
}

func (s *LinkedInScraper) run(ctx context.Context, page browser.Page, c scraper.SearchCriteria, within scraper.PostedWithin) (*scraper.Result, error) {
	nav := NewNavigator(page, s.sel, s.opts)

	searchURL := SearchURL(s.opts.BaseURL, c, within)
	log.Printf("💼 Searching LinkedIn: %s", searchURL)
	if err := nav.Open(ctx, searchURL, s.sel.ResultsLoaded); err != nil {
		return nil, fmt.Errorf("load search results: %w", err)
	}

	rounds := s.opts.RevealRounds(c.Count)
	stats, err := nav.RevealMore(ctx, rounds)
	if err != nil {
		return nil, fmt.Errorf("reveal results: %w", err)
	}
	log.Printf("  📜 Revealed results: %d rounds, %d load-more clicks, %d interstitials closed",
		stats.Rounds, stats.LoadMoreClicks, stats.InterstitialsClosed)

	html, err := page.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("read results page: %w", err)
	}
	candidates, err := NewExtractor(s.sel, s.opts.BaseURL).Extract(html)
	if err != nil {
		return nil, fmt.Errorf("extract listings: %w", err)
	}

	matched := filter.Apply(candidates, c)
	log.Printf("  📄 Found %d listings, %d match the criteria", len(candidates), len(matched))

	result := &scraper.Result{Candidates: len(candidates), Matched: len(matched)}
	if len(matched) == 0 {
		return result, nil
	}

	listings, fstats, err := NewFetcher(nav, s.sel, s.cleaner).Fetch(ctx, matched, c.Count)
	result.Listings = listings
	result.Skipped = fstats.Skipped
	// running out of budget mid-enrichment ends the run with what it has;
	// a cancelled or expired caller context is still an error
	if err != nil && errors.Is(context.Cause(ctx), errRunTimeout) {
		log.Printf("  ⏱️ Run timeout reached after %d/%d listings", len(listings), c.Count)
		result.TimedOut = true
		err = nil
	}
	if err != nil {
		return result, fmt.Errorf("fetch descriptions: %w", err)
	}
	log.Printf("  🔗 Enriched %d/%d listings (%d skipped)", len(listings), c.Count, fstats.Skipped)
	return result, nil
}
