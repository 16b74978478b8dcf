package linkedin

import (
	"context"
	"errors"
	"testing"

	"go-resume-analyzer/internal/browser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = "https://www.linkedin.com/jobs/search?keywords=go"

func TestNavigatorOpenRetriesUntilRendered(t *testing.T) {
	doc := resultsDoc()
	doc.renderAfter = 3
	page := newFakePage(map[string]*fakeDoc{searchPage: doc})
	nav := NewNavigator(page, DefaultSelectors(), testOptions())

	err := nav.Open(context.Background(), searchPage, DefaultSelectors().ResultsLoaded)

	require.NoError(t, err)
	assert.Equal(t, 3, page.gotos[searchPage])
}

func TestNavigatorOpenIsBounded(t *testing.T) {
	page := newFakePage(map[string]*fakeDoc{searchPage: {visible: map[string]bool{}}})
	nav := NewNavigator(page, DefaultSelectors(), testOptions())

	err := nav.Open(context.Background(), searchPage, DefaultSelectors().ResultsLoaded)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNavigationTimeout)
	assert.ErrorIs(t, err, browser.ErrNotFound)
	var navErr *NavigationError
	require.True(t, errors.As(err, &navErr))
	assert.Equal(t, 3, navErr.Attempts)
	assert.Equal(t, searchPage, navErr.URL)
	assert.Equal(t, 3, page.gotos[searchPage])
}

func TestNavigatorOpenRetriesNavigationErrors(t *testing.T) {
	page := newFakePage(map[string]*fakeDoc{})
	nav := NewNavigator(page, DefaultSelectors(), testOptions())

	err := nav.Open(context.Background(), searchPage, DefaultSelectors().ResultsLoaded)

	assert.ErrorIs(t, err, ErrNavigationTimeout)
	assert.Equal(t, 3, page.gotos[searchPage])
}

func TestNavigatorOpenStopsOnClosedSession(t *testing.T) {
	page := newFakePage(map[string]*fakeDoc{searchPage: resultsDoc()})
	page.closed = true
	nav := NewNavigator(page, DefaultSelectors(), testOptions())

	err := nav.Open(context.Background(), searchPage, DefaultSelectors().ResultsLoaded)

	assert.ErrorIs(t, err, browser.ErrSessionClosed)
	assert.NotErrorIs(t, err, ErrNavigationTimeout)
}

func TestNavigatorOpenStopsOnCancelledContext(t *testing.T) {
	page := newFakePage(map[string]*fakeDoc{searchPage: resultsDoc()})
	nav := NewNavigator(page, DefaultSelectors(), testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := nav.Open(ctx, searchPage, DefaultSelectors().ResultsLoaded)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, page.gotos[searchPage])
}

func TestRevealMoreToleratesMissingControls(t *testing.T) {
	page := newFakePage(map[string]*fakeDoc{searchPage: resultsDoc()})
	nav := NewNavigator(page, DefaultSelectors(), testOptions())
	require.NoError(t, nav.Open(context.Background(), searchPage, DefaultSelectors().ResultsLoaded))

	stats, err := nav.RevealMore(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, RevealStats{Rounds: 3}, stats)
	assert.Equal(t, 3, page.scrolls)
}

func TestRevealMoreClicksPresentControls(t *testing.T) {
	sel := DefaultSelectors()
	doc := resultsDoc()
	doc.visible[sel.Interstitial] = true
	doc.visible[sel.LoadMore] = true
	page := newFakePage(map[string]*fakeDoc{searchPage: doc})
	nav := NewNavigator(page, sel, testOptions())
	require.NoError(t, nav.Open(context.Background(), searchPage, sel.ResultsLoaded))

	stats, err := nav.RevealMore(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, RevealStats{Rounds: 2, InterstitialsClosed: 2, LoadMoreClicks: 2}, stats)
	assert.Equal(t, 2, page.clicks[sel.LoadMore])
}

func TestRevealMoreStopsOnClosedSession(t *testing.T) {
	page := newFakePage(map[string]*fakeDoc{searchPage: resultsDoc()})
	nav := NewNavigator(page, DefaultSelectors(), testOptions())
	page.closed = true

	stats, err := nav.RevealMore(context.Background(), 3)

	assert.ErrorIs(t, err, browser.ErrSessionClosed)
	assert.Zero(t, stats.Rounds)
}

func TestRevealRounds(t *testing.T) {
	opts := Options{RevealRoundsPerResult: 0.5, MaxRevealRounds: 4}
	assert.Equal(t, 1, opts.RevealRounds(1))
	assert.Equal(t, 2, opts.RevealRounds(3))
	assert.Equal(t, 4, opts.RevealRounds(50))
}
