// Package filter decides which scraped listings match a user's search.
package filter

import (
	"strings"

	"go-resume-analyzer/internal/scraper"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// fold normalizes s for case-insensitive comparison.
func fold(s string) string {
	return folder.String(norm.NFC.String(s))
}

// MatchTitle reports whether any phrase has all of its words contained in
// some word of title. Containment is substring based: "eng" matches
// "Engineer".
func MatchTitle(title string, phrases []scraper.Phrase) bool {
	words := strings.Fields(fold(title))
	for _, phrase := range phrases {
		if len(phrase) > 0 && phraseMatches(words, phrase) {
			return true
		}
	}
	return false
}

func phraseMatches(titleWords []string, phrase scraper.Phrase) bool {
	for _, w := range phrase {
		if !containedInAny(titleWords, fold(w)) {
			return false
		}
	}
	return true
}

func containedInAny(words []string, needle string) bool {
	for _, w := range words {
		if strings.Contains(w, needle) {
			return true
		}
	}
	return false
}

// MatchLocation is a case-insensitive substring test. An empty wanted
// location matches everything.
func MatchLocation(location, wanted string) bool {
	return strings.Contains(fold(location), fold(strings.TrimSpace(wanted)))
}

// Keep reports whether l satisfies both the title and the location criteria.
func Keep(l scraper.Listing, c scraper.SearchCriteria) bool {
	return MatchTitle(l.Title, c.Phrases) && MatchLocation(l.Location, c.Location)
}

// Apply returns the listings that pass Keep, in their original order.
func Apply(listings []scraper.Listing, c scraper.SearchCriteria) []scraper.Listing {
	kept := make([]scraper.Listing, 0, len(listings))
	for _, l := range listings {
		if Keep(l, c) {
			kept = append(kept, l)
		}
	}
	return kept
}
