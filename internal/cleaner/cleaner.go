// Package cleaner turns scraped description markup into plain text.
package cleaner

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Cleaner strips all HTML from description text.
type Cleaner struct {
	policy *bluemonday.Policy
}

func New() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

var (
	blockTags  = regexp.MustCompile(`(?i)<\s*(br|/p|/li|/div|/h[1-6]|/ul|/ol)\s*/?>`)
	spaceRuns  = regexp.MustCompile(`[ \t\p{Zs}]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanToText removes markup and normalizes whitespace. Block-level
// boundaries become line breaks so paragraphs survive. raw must be markup
// (innerHTML); escaped text such as &lt;div&gt; comes back as literal text.
func (c *Cleaner) CleanToText(raw string) string {
	text := blockTags.ReplaceAllString(raw, "$0\n")
	text = c.policy.Sanitize(text)
	// bluemonday escapes entities in text nodes
	text = html.UnescapeString(text)

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
