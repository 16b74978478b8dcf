package scraper

import (
	"fmt"
	"io"
	"strings"
)

const NoMatchesMessage = "No matching jobs found."

// Render writes one block per listing, or NoMatchesMessage when there are none.
func Render(w io.Writer, listings []EnrichedListing) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, NoMatchesMessage)
		return err
	}
	for i, l := range listings {
		if i > 0 {
			if _, err := fmt.Fprintln(w, strings.Repeat("-", 60)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "Company Name : %s\nJob Title    : %s\nLocation     : %s\nWebsite URL  : %s\n\nJob Description:\n%s\n",
			l.Company, l.Title, l.Location, l.URL, strings.TrimSpace(l.Description))
		if err != nil {
			return err
		}
	}
	return nil
}
