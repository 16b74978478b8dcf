package linkedin

import (
	"math"
	"time"

	"go-resume-analyzer/internal/browser"
	"go-resume-analyzer/internal/config"
)

// Selectors locate the parts of the LinkedIn guest pages the pipeline reads.
type Selectors struct {
	// search results page
	ResultsLoaded string
	Card          string
	CardCompany   string
	CardTitle     string
	CardLocation  string
	CardLink      string
	Interstitial  string
	LoadMore      string

	// job detail page. DetailLoaded marks the page itself, not the
	// description, so a posting without one is skipped after one load.
	DetailLoaded string
	ShowMore     string
	Description  string
}

func DefaultSelectors() Selectors {
	return Selectors{
		ResultsLoaded: "ul.jobs-search__results-list",
		Card:          "ul.jobs-search__results-list > li",
		CardCompany:   "h4.base-search-card__subtitle",
		CardTitle:     "h3.base-search-card__title",
		CardLocation:  "span.job-search-card__location",
		CardLink:      "a.base-card__full-link",
		Interstitial:  "button.modal__dismiss",
		LoadMore:      "button.infinite-scroller__show-more-button--visible",

		DetailLoaded: "main",
		ShowMore:     "button.show-more-less-html__button--more",
		Description:  "div.show-more-less-html__markup",
	}
}

const DefaultBaseURL = "https://www.linkedin.com/jobs/search"

// Options tune navigation and result reveal.
type Options struct {
	BaseURL string

	// NavigationTimeout bounds one page load plus the wait for its marker.
	NavigationTimeout time.Duration
	// MaxAttempts caps the navigations tried before Open gives up.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	ScrollPause time.Duration
	// RevealRoundsPerResult scales the number of scroll rounds with the
	// requested count. It is a heuristic: filtering may still drop most of
	// what gets revealed.
	RevealRoundsPerResult float64
	MaxRevealRounds       int

	// DetailDelayMinMs and DetailDelayMaxMs bound the random pause between
	// two detail pages.
	DetailDelayMinMs int
	DetailDelayMaxMs int

	// RunTimeout bounds a whole Search call. Zero disables it.
	RunTimeout time.Duration

	Debugger *browser.ScreenshotDebugger
}

func DefaultOptions() Options {
	return Options{
		BaseURL:               DefaultBaseURL,
		NavigationTimeout:     30 * time.Second,
		MaxAttempts:           4,
		InitialBackoff:        2 * time.Second,
		MaxBackoff:            15 * time.Second,
		ScrollPause:           1500 * time.Millisecond,
		RevealRoundsPerResult: 0.5,
		MaxRevealRounds:       20,
		DetailDelayMinMs:      800,
		DetailDelayMaxMs:      2000,
		RunTimeout:            10 * time.Minute,
	}
}

// OptionsFromConfig maps the search section of the config file.
func OptionsFromConfig(cfg config.SearchConfig, debugger *browser.ScreenshotDebugger) Options {
	return Options{
		BaseURL:               cfg.BaseURL,
		NavigationTimeout:     cfg.NavigationTimeout,
		MaxAttempts:           cfg.MaxAttempts,
		InitialBackoff:        cfg.InitialBackoff,
		MaxBackoff:            cfg.MaxBackoff,
		ScrollPause:           cfg.ScrollPause,
		RevealRoundsPerResult: cfg.RevealRoundsPerResult,
		MaxRevealRounds:       cfg.MaxRevealRounds,
		DetailDelayMinMs:      cfg.DetailDelayMinMs,
		DetailDelayMaxMs:      cfg.DetailDelayMaxMs,
		RunTimeout:            cfg.RunTimeout,
		Debugger:              debugger,
	}
}

// withDefaults fills zero fields that would otherwise stall or skip work.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BaseURL == "" {
		o.BaseURL = d.BaseURL
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = d.NavigationTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 1
	}
	if o.MaxBackoff < o.InitialBackoff {
		o.MaxBackoff = o.InitialBackoff
	}
	if o.RevealRoundsPerResult <= 0 {
		o.RevealRoundsPerResult = d.RevealRoundsPerResult
	}
	if o.MaxRevealRounds <= 0 {
		o.MaxRevealRounds = 1
	}
	return o
}

// RevealRounds is the number of scroll rounds used for count results.
func (o Options) RevealRounds(count int) int {
	rounds := int(math.Ceil(float64(count) * o.RevealRoundsPerResult))
	if rounds < 1 {
		rounds = 1
	}
	if rounds > o.MaxRevealRounds {
		rounds = o.MaxRevealRounds
	}
	return rounds
}
