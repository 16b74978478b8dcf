package linkedin

import (
	"context"
	"errors"
	"log"

	"go-resume-analyzer/internal/browser"
	"go-resume-analyzer/internal/cleaner"
	"go-resume-analyzer/internal/scraper"
)

var errEmptyDescription = errors.New("description is empty")

// FetchStats counts the detail pages visited by a Fetch call.
type FetchStats struct {
	Attempted int
	Skipped   int
}

// Fetcher opens detail pages and attaches their full description.
type Fetcher struct {
	nav     *Navigator
	sel     Selectors
	cleaner *cleaner.Cleaner
}

func NewFetcher(nav *Navigator, sel Selectors, c *cleaner.Cleaner) *Fetcher {
	if c == nil {
		c = cleaner.New()
	}
	return &Fetcher{nav: nav, sel: sel, cleaner: c}
}

// Fetch enriches candidates in order until target listings have a
// description. Candidates whose page fails or yields no text are skipped
// and do not count. Running out of candidates gives a short result, not an
// error. The context is checked before each candidate; on cancellation the
// listings enriched so far are returned with the context error.
func (f *Fetcher) Fetch(ctx context.Context, candidates []scraper.Listing, target int) ([]scraper.EnrichedListing, FetchStats, error) {
	var stats FetchStats
	out := make([]scraper.EnrichedListing, 0, min(target, len(candidates)))

	for i, l := range candidates {
		if len(out) >= target {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, stats, err
		}
		if i > 0 {
			if err := browser.RandomDelay(ctx, f.nav.opts.DetailDelayMinMs, f.nav.opts.DetailDelayMaxMs); err != nil {
				return out, stats, err
			}
		}

		stats.Attempted++
		desc, err := f.describe(ctx, l)
		if err != nil {
			if fatal(ctx, err) {
				return out, stats, err
			}
			stats.Skipped++
			log.Printf("      ⚠️ Skipping %s: %v", l.URL, err)
			continue
		}

		out = append(out, scraper.EnrichedListing{Listing: l, Description: desc})
		log.Printf("      ✅ %s - %s", l.Title, l.Company)
	}
	return out, stats, nil
}

func (f *Fetcher) describe(ctx context.Context, l scraper.Listing) (string, error) {
	if err := f.nav.Open(ctx, l.URL, f.sel.DetailLoaded); err != nil {
		return "", err
	}

	//expand truncated description
	if _, err := f.nav.TryClick(ctx, f.sel.ShowMore); err != nil {
		return "", err
	}

	raw, err := f.nav.Page().HTML(ctx, f.sel.Description)
	if err != nil {
		return "", err
	}
	desc := f.cleaner.CleanToText(raw)
	if desc == "" {
		return "", errEmptyDescription
	}
	return desc, nil
}
