package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds sessions in process memory. Nothing survives a restart.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Context
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl without use.
// A zero ttl keeps sessions until deleted.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Context),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the live session with id.
func (s *Store) Get(id string) (*Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(c, now) {
		delete(s.sessions, id)
		return nil, false
	}
	c.touch(now)
	return c, true
}

// Create starts a new empty session.
func (s *Store) Create() *Context {
	now := s.now()
	c := &Context{ID: uuid.NewString(), CreatedAt: now, lastSeen: now}

	s.mu.Lock()
	s.sessions[c.ID] = c
	s.mu.Unlock()
	return c
}

// GetOrCreate returns the session for id, or a new one when id is unknown
// or expired. The boolean reports whether a session was created.
func (s *Store) GetOrCreate(id string) (*Context, bool) {
	if id != "" {
		if c, ok := s.Get(id); ok {
			return c, false
		}
	}
	return s.Create(), true
}

// Delete removes a session and clears its state.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	c, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		c.Clear()
	}
}

// Len is the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Prune drops expired sessions and returns how many were removed.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, c := range s.sessions {
		if s.expired(c, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("🧹 Pruned %d expired sessions", removed)
	}
	return removed
}

func (s *Store) expired(c *Context, now time.Time) bool {
	return s.ttl > 0 && now.Sub(c.idleSince()) > s.ttl
}
