package linkedin

import (
	"errors"
	"testing"

	"go-resume-analyzer/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractScopesFieldsToEachCard(t *testing.T) {
	html := resultsHTML(
		card{"Acme", "Senior Data Scientist", "Bengaluru, India", "https://in.linkedin.com/jobs/view/senior-data-scientist-1?refId=abc&trackingId=x"},
		// no location element text: must not borrow the next card's
		card{"Globex", "Data Analyst", "", "/jobs/view/data-analyst-2"},
		card{"Initech", "ML Engineer", "Remote", "https://in.linkedin.com/jobs/view/ml-engineer-3#top"},
	)

	listings, err := NewExtractor(DefaultSelectors(), DefaultBaseURL).Extract(html)

	require.NoError(t, err)
	assert.Equal(t, []scraper.Listing{
		{Company: "Acme", Title: "Senior Data Scientist", Location: "Bengaluru, India", URL: "https://in.linkedin.com/jobs/view/senior-data-scientist-1"},
		{Company: "Globex", Title: "Data Analyst", Location: "", URL: "https://www.linkedin.com/jobs/view/data-analyst-2"},
		{Company: "Initech", Title: "ML Engineer", Location: "Remote", URL: "https://in.linkedin.com/jobs/view/ml-engineer-3"},
	}, listings)
}

func TestExtractDropsCardsWithoutLinkAndDuplicates(t *testing.T) {
	html := resultsHTML(
		card{"Acme", "Go Developer", "Berlin", "https://www.linkedin.com/jobs/view/1?refId=a"},
		card{"Promoted", "Go Developer", "Berlin", ""},
		card{"Acme", "Go Developer", "Berlin", "https://www.linkedin.com/jobs/view/1?refId=b"},
	)

	listings, err := NewExtractor(DefaultSelectors(), DefaultBaseURL).Extract(html)

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1", listings[0].URL)
}

func TestExtractEmptyPage(t *testing.T) {
	listings, err := NewExtractor(DefaultSelectors(), DefaultBaseURL).Extract(`<html><body></body></html>`)

	require.NoError(t, err)
	assert.Empty(t, listings)
}

const flatColumns = `<html><body><div>
	<h4 class="base-search-card__subtitle">Acme</h4>
	<h4 class="base-search-card__subtitle">Globex</h4>
	<span class="job-search-card__location">Pune, India</span>
	<span class="job-search-card__location">Remote</span>
	<h3 class="base-search-card__title">Data Scientist</h3>
	<h3 class="base-search-card__title">Data Engineer</h3>
	<a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/10"></a>
	<a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/11"></a>
</div></body></html>`

func TestExtractFallsBackToAlignedColumns(t *testing.T) {
	listings, err := NewExtractor(DefaultSelectors(), DefaultBaseURL).Extract(flatColumns)

	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, scraper.Listing{Company: "Globex", Title: "Data Engineer", Location: "Remote", URL: "https://www.linkedin.com/jobs/view/11"}, listings[1])
}

func TestExtractRejectsMisalignedColumns(t *testing.T) {
	html := `<html><body>
	<h4 class="base-search-card__subtitle">Acme</h4>
	<h4 class="base-search-card__subtitle">Globex</h4>
	<span class="job-search-card__location">Pune, India</span>
	<h3 class="base-search-card__title">Data Scientist</h3>
	<h3 class="base-search-card__title">Data Engineer</h3>
	<a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/10"></a>
	<a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/11"></a>
	</body></html>`

	listings, err := NewExtractor(DefaultSelectors(), DefaultBaseURL).Extract(html)

	assert.Nil(t, listings)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, MismatchError{Companies: 2, Locations: 1, Titles: 2, URLs: 2}, *mismatch)
}

func TestZipColumns(t *testing.T) {
	tests := []struct {
		name      string
		companies []string
		locations []string
		titles    []string
		urls      []string
		wantLen   int
		wantErr   bool
	}{
		{"empty", nil, nil, nil, nil, 0, false},
		{"aligned", []string{"a", "b"}, []string{"x", "y"}, []string{"t1", "t2"}, []string{"u1", "u2"}, 2, false},
		{"short urls", []string{"a", "b"}, []string{"x", "y"}, []string{"t1", "t2"}, []string{"u1"}, 0, true},
		{"extra title", []string{"a"}, []string{"x"}, []string{"t1", "t2"}, []string{"u1"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ZipColumns(tt.companies, tt.locations, tt.titles, tt.urls)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrStructuralMismatch)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			for i := range got {
				assert.Equal(t, tt.titles[i], got[i].Title)
				assert.Equal(t, tt.urls[i], got[i].URL)
			}
		})
	}
}
