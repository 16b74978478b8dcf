// Package dedup remembers which listing URLs were already notified so a
// scheduled CLI run does not send them again.
package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-resume-analyzer/internal/scraper"
)

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

type SeenCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
	maxAge   time.Duration
	now      func() time.Time
}

const DefaultMaxAge = 30 * 24 * time.Hour

// NewSeenCache creates or loads the cache stored in cacheDir. Entries older
// than maxAge are dropped on load.
func NewSeenCache(cacheDir string, maxAge time.Duration) *SeenCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	cache := &SeenCache{
		filePath: filepath.Join(cacheDir, "seen_listings.json"),
		seen:     make(map[string]int64),
		maxAge:   maxAge,
		now:      time.Now,
	}
	cache.load()
	return cache
}

// IsSeen checks if a URL has already been processed
func (sc *SeenCache) IsSeen(url string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	_, exists := sc.seen[url]
	return exists
}

// Unseen returns the listings not notified before, in order.
func (sc *SeenCache) Unseen(listings []scraper.EnrichedListing) []scraper.EnrichedListing {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	out := make([]scraper.EnrichedListing, 0, len(listings))
	for _, l := range listings {
		if _, exists := sc.seen[l.URL]; !exists {
			out = append(out, l)
		}
	}
	return out
}

// Add marks urls as seen and persists the cache when anything changed.
func (sc *SeenCache) Add(urls []string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	now := sc.now().UnixMilli()
	changed := false
	for _, url := range urls {
		if _, exists := sc.seen[url]; !exists {
			sc.seen[url] = now
			changed = true
		}
	}

	if changed {
		sc.save()
	}
}

// load reads the cache from disk into the in-memory map
func (sc *SeenCache) load() {
	data, err := os.ReadFile(sc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", sc.filePath, err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse %s: %v", sc.filePath, err)
		return
	}

	cutoff := sc.now().Add(-sc.maxAge).UnixMilli()
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			sc.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen listings (%d expired and removed)", loaded, len(entries)-loaded)
}

// save writes the current cache to disk
func (sc *SeenCache) save() {
	entries := make([]seenEntry, 0, len(sc.seen))
	for url, ts := range sc.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen listings: %v", err)
		return
	}
	if err := os.WriteFile(sc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write %s: %v", sc.filePath, err)
		return
	}
	log.Printf("💾 Saved %d seen listings to cache", len(entries))
}
