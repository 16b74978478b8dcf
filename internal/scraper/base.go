// Package scraper holds the listing types shared by the job-board scrapers
// and the search criteria they are filtered against.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Listing is one search-result card. URL is its natural key.
type Listing struct {
	Company  string `json:"company"`
	Title    string `json:"title"`
	Location string `json:"location"`
	URL      string `json:"url"`
}

// EnrichedListing is a Listing whose detail page yielded a description.
type EnrichedListing struct {
	Listing
	Description string `json:"description"`
}

// Phrase is a set of words that must all occur in a matching title.
type Phrase []string

func (p Phrase) String() string {
	return strings.Join(p, " ")
}

// SearchCriteria is what the user asked for. It is not modified during a run.
type SearchCriteria struct {
	Phrases  []Phrase
	Location string
	Count    int
}

var (
	ErrNoTitles     = errors.New("at least one job title is required")
	ErrInvalidCount = errors.New("result count must be a positive integer")
)

// ParseCriteria builds criteria from the raw form input: titles separated by
// commas, a location, and the number of listings wanted.
func ParseCriteria(titles, location string, count int) (SearchCriteria, error) {
	var phrases []Phrase
	for _, raw := range strings.Split(titles, ",") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			continue
		}
		phrases = append(phrases, Phrase(words))
	}
	if len(phrases) == 0 {
		return SearchCriteria{}, ErrNoTitles
	}
	if count < 1 {
		return SearchCriteria{}, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	return SearchCriteria{
		Phrases:  phrases,
		Location: strings.TrimSpace(location),
		Count:    count,
	}, nil
}

// Titles returns the phrases as space-joined strings.
func (c SearchCriteria) Titles() []string {
	out := make([]string, len(c.Phrases))
	for i, p := range c.Phrases {
		out[i] = p.String()
	}
	return out
}

// PostedWithin restricts a search to recently posted listings.
type PostedWithin string

const (
	AnyTime   PostedWithin = ""
	PastDay   PostedWithin = "24h"
	PastWeek  PostedWithin = "week"
	PastMonth PostedWithin = "month"
)

// ParsePostedWithin accepts the short forms and the labels shown in the form.
func ParsePostedWithin(s string) (PostedWithin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "any time", "anytime":
		return AnyTime, nil
	case "24h", "day", "past 24 hours":
		return PastDay, nil
	case "week", "past week":
		return PastWeek, nil
	case "month", "past month":
		return PastMonth, nil
	}
	return AnyTime, fmt.Errorf("unknown time filter %q", s)
}

// Label is the human-readable form used in link titles.
func (p PostedWithin) Label() string {
	switch p {
	case PastDay:
		return "Past 24 hours"
	case PastWeek:
		return "Past week"
	case PastMonth:
		return "Past month"
	}
	return "Any time"
}

// Result is the outcome of one acquisition run. An empty Listings slice is a
// valid "no matching jobs" answer, not a failure.
type Result struct {
	Listings   []EnrichedListing `json:"jobs"`
	Candidates int               `json:"candidates"`
	Matched    int               `json:"matched"`
	Skipped    int               `json:"skipped"`
	// TimedOut marks a result cut short by the run timeout while
	// descriptions were being fetched.
	TimedOut bool `json:"timed_out,omitempty"`
}

func (r *Result) Empty() bool {
	return r == nil || len(r.Listings) == 0
}

// Scraper is implemented by every job-board acquisition pipeline.
type Scraper interface {
	Search(ctx context.Context, criteria SearchCriteria, within PostedWithin) (*Result, error)

	// Name is the platform name (LinkedIn, ...)
	Name() string
}
