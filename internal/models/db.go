package models

import (
	"time"
)

// SearchRun is one archived acquisition run.
type SearchRun struct {
	ID           string    `json:"id"`
	Titles       []string  `json:"titles"`
	Location     string    `json:"location"`
	PostedWithin string    `json:"posted_within"`
	Requested    int       `json:"requested"`
	Candidates   int       `json:"candidates"`
	Matched      int       `json:"matched"`
	Skipped      int       `json:"skipped"`
	Enriched     int       `json:"enriched"`
	CreatedAt    time.Time `json:"created_at"`
}

// Listing is an enriched listing as stored. URL is unique.
type Listing struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	FirstRunID  string    `json:"first_run_id"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}
