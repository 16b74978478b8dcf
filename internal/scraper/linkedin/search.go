package linkedin

import (
	"fmt"
	"net/url"
	"strings"

	"go-resume-analyzer/internal/scraper"
)

var postedWithinParam = map[scraper.PostedWithin]string{
	scraper.PastDay:   "r86400",
	scraper.PastWeek:  "r604800",
	scraper.PastMonth: "r2592000",
}

func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildSearchURL returns the guest job-search URL for keywords in location.
func BuildSearchURL(base, keywords, location string, within scraper.PostedWithin) string {
	if base == "" {
		base = DefaultBaseURL
	}
	u := fmt.Sprintf("%s?keywords=%s&location=%s",
		base, queryEscape(strings.Join(strings.Fields(keywords), " ")), queryEscape(strings.TrimSpace(location)))
	if tpr, ok := postedWithinParam[within]; ok {
		u += "&f_TPR=" + tpr
	}
	return u
}

// SearchURL builds the single search used by the pipeline: every phrase,
// OR-ed together.
func SearchURL(base string, c scraper.SearchCriteria, within scraper.PostedWithin) string {
	return BuildSearchURL(base, strings.Join(c.Titles(), " OR "), c.Location, within)
}

// SearchLink is one ready-to-open search for a single title.
type SearchLink struct {
	Title string `json:"title"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SearchLinks returns one search link per comma-separated title.
func SearchLinks(base, titles, location string, within scraper.PostedWithin) []SearchLink {
	var links []SearchLink
	for _, raw := range strings.Split(titles, ",") {
		title := strings.TrimSpace(raw)
		if title == "" {
			continue
		}
		links = append(links, SearchLink{
			Title: title,
			Label: fmt.Sprintf("%s jobs in %s (%s)", title, strings.TrimSpace(location), within.Label()),
			URL:   BuildSearchURL(base, title, location, within),
		})
	}
	return links
}
