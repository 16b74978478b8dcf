package linkedin

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"go-resume-analyzer/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

// ErrStructuralMismatch is matched by every *MismatchError.
var ErrStructuralMismatch = errors.New("listing columns have different lengths")

// MismatchError reports page-level columns that cannot be paired up.
type MismatchError struct {
	Companies, Locations, Titles, URLs int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: companies=%d locations=%d titles=%d urls=%d",
		ErrStructuralMismatch, e.Companies, e.Locations, e.Titles, e.URLs)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrStructuralMismatch
}

// Extractor turns a rendered results page into listings.
type Extractor struct {
	sel     Selectors
	baseURL *url.URL
}

func NewExtractor(sel Selectors, base string) *Extractor {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		u, _ = url.Parse(DefaultBaseURL)
	}
	return &Extractor{sel: sel, baseURL: u}
}

func cleanText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.First().Text()), " ")
}

// Extract reads listings in page order. Each card is queried on its own so
// fields can never shift between listings; a page without card containers
// falls back to page-level columns, which must line up exactly.
func (e *Extractor) Extract(html string) ([]scraper.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var raw []scraper.Listing
	cards := doc.Find(e.sel.Card)
	if cards.Length() > 0 {
		cards.Each(func(_ int, card *goquery.Selection) {
			href, _ := card.Find(e.sel.CardLink).First().Attr("href")
			raw = append(raw, scraper.Listing{
				Company:  cleanText(card.Find(e.sel.CardCompany)),
				Title:    cleanText(card.Find(e.sel.CardTitle)),
				Location: cleanText(card.Find(e.sel.CardLocation)),
				URL:      href,
			})
		})
	} else {
		raw, err = ZipColumns(
			texts(doc.Find(e.sel.CardCompany)),
			texts(doc.Find(e.sel.CardLocation)),
			texts(doc.Find(e.sel.CardTitle)),
			attrs(doc.Find(e.sel.CardLink), "href"),
		)
		if err != nil {
			return nil, err
		}
	}

	return e.normalize(raw), nil
}

func texts(s *goquery.Selection) []string {
	return s.Map(func(_ int, el *goquery.Selection) string {
		return cleanText(el)
	})
}

func attrs(s *goquery.Selection, name string) []string {
	return s.Map(func(_ int, el *goquery.Selection) string {
		v, _ := el.Attr(name)
		return v
	})
}

// ZipColumns pairs the i-th company, location, title and URL. Columns of
// different lengths return a *MismatchError rather than shifted tuples.
func ZipColumns(companies, locations, titles, urls []string) ([]scraper.Listing, error) {
	n := len(companies)
	if len(locations) != n || len(titles) != n || len(urls) != n {
		return nil, &MismatchError{
			Companies: len(companies),
			Locations: len(locations),
			Titles:    len(titles),
			URLs:      len(urls),
		}
	}
	out := make([]scraper.Listing, n)
	for i := range out {
		out[i] = scraper.Listing{
			Company:  companies[i],
			Location: locations[i],
			Title:    titles[i],
			URL:      urls[i],
		}
	}
	return out, nil
}

// normalize resolves and canonicalizes URLs, then drops cards without a
// link and repeated postings.
func (e *Extractor) normalize(raw []scraper.Listing) []scraper.Listing {
	out := make([]scraper.Listing, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	skipped := 0
	for _, l := range raw {
		l.URL = e.CanonicalURL(l.URL)
		if l.URL == "" {
			skipped++
			continue
		}
		if seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		out = append(out, l)
	}
	if skipped > 0 {
		log.Printf("    ⚠️ Skipped %d cards without a job link", skipped)
	}
	return out
}

// CanonicalURL resolves href against the search page and strips the
// tracking query string and fragment, which differ between page loads.
func (e *Extractor) CanonicalURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u = e.baseURL.ResolveReference(u)
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
