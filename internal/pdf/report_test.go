package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLSkipsEmptySections(t *testing.T) {
	html, err := RenderHTML(Report{
		Summary:     "Seasoned Go engineer.",
		JobTitles:   "Backend Engineer",
		GeneratedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Contains(t, html, "Generated 2026-03-01 09:30")
	assert.Contains(t, html, "<h2>Summary</h2>")
	assert.Contains(t, html, "<h2>Suggested Job Titles</h2>")
	assert.NotContains(t, html, "Strengths")
	assert.Less(t, strings.Index(html, "Summary"), strings.Index(html, "Suggested Job Titles"))
}

func TestRenderHTMLEscapesModelOutput(t *testing.T) {
	html, err := RenderHTML(Report{Summary: "<script>alert(1)</script>"})

	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderHTMLEmptyReport(t *testing.T) {
	html, err := RenderHTML(Report{})
	require.NoError(t, err)
	assert.Contains(t, html, "No analysis yet.")
}
