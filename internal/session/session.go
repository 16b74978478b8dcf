// Package session keeps the per-user analysis state between requests.
package session

import (
	"sync"
	"time"
)

// Context is one user's cached resume and analyses. All access goes through
// its methods; handlers receive it explicitly.
type Context struct {
	ID        string
	CreatedAt time.Time

	mu         sync.RWMutex
	apiKey     string
	resumeText string
	summary    string
	strengths  string
	weaknesses string
	jobTitles  string
	lastSeen   time.Time
}

// Snapshot is a copy of the cached state, safe to read without locking.
type Snapshot struct {
	APIKey     string
	ResumeText string
	Summary    string
	Strengths  string
	Weaknesses string
	JobTitles  string
}

func (s Snapshot) HasResume() bool {
	return s.ResumeText != "" && s.Summary != ""
}

func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		APIKey:     c.apiKey,
		ResumeText: c.resumeText,
		Summary:    c.summary,
		Strengths:  c.strengths,
		Weaknesses: c.weaknesses,
		JobTitles:  c.jobTitles,
	}
}

// SetResume stores a freshly analyzed resume. Older analyses belong to the
// previous resume and are dropped.
func (c *Context) SetResume(apiKey, text, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = apiKey
	c.resumeText = text
	c.summary = summary
	c.strengths, c.weaknesses, c.jobTitles = "", "", ""
}

func (c *Context) SetStrengths(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strengths = s
}

func (c *Context) SetWeaknesses(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weaknesses = s
}

func (c *Context) SetJobTitles(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobTitles = s
}

// Clear forgets everything, including the API key.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey, c.resumeText, c.summary = "", "", ""
	c.strengths, c.weaknesses, c.jobTitles = "", "", ""
}

func (c *Context) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Context) idleSince() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSeen
}
