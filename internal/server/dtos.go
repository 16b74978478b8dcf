package server

import "go-resume-analyzer/internal/scraper"

type SearchRequest struct {
	Titles     string `json:"titles" binding:"required"`
	Location   string `json:"location"`
	Count      int    `json:"count" binding:"required"`
	TimeFilter string `json:"time_filter"`
}

type SearchResponse struct {
	Status     string                    `json:"status"`
	Message    string                    `json:"message,omitempty"`
	Jobs       []scraper.EnrichedListing `json:"jobs"`
	Candidates int                       `json:"candidates"`
	Matched    int                       `json:"matched"`
	Skipped    int                       `json:"skipped"`
}

type LinksRequest struct {
	Titles     string `json:"titles" binding:"required"`
	Location   string `json:"location"`
	TimeFilter string `json:"time_filter"`
}

type AnalysisResponse struct {
	Kind   string `json:"kind"`
	Result string `json:"result"`
}

type SessionResponse struct {
	ID            string `json:"id"`
	HasResume     bool   `json:"has_resume"`
	HasStrengths  bool   `json:"has_strengths"`
	HasWeaknesses bool   `json:"has_weaknesses"`
	HasJobTitles  bool   `json:"has_job_titles"`
}
