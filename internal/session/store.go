// Package session keeps the authenticated user for each browser session.
// The cookie carries only an opaque signed token; the user object itself
// lives server-side in the store.
package session

import (
	"sync"
	"time"

	"tesouraria/internal/models"
)

// DefaultTTL is how long a session lives without being destroyed.
const DefaultTTL = 24 * time.Hour

// Store is the per-session key/value state holding the authenticated
// user. Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) (*models.User, bool)
	Set(key string, user *models.User)
	Destroy(key string)
}

type record struct {
	user      *models.User
	expiresAt time.Time
}

// MemoryStore is an in-process Store with TTL-based expiry.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	records map[string]*record

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// NewMemoryStore creates a store whose entries expire after ttl and
// starts a background sweep for expired entries.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		ttl:         ttl,
		records:     make(map[string]*record),
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Get returns the user for key, if the session exists and has not expired.
func (s *MemoryStore) Get(key string) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(rec.expiresAt) {
		delete(s.records, key)
		return nil, false
	}
	return rec.user, true
}

// Set stores the user under key, resetting its expiry.
func (s *MemoryStore) Set(key string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = &record{user: user, expiresAt: time.Now().Add(s.ttl)}
}

// Destroy removes the session for key. Destroying an absent session is a
// no-op.
func (s *MemoryStore) Destroy(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
}

// CleanExpired removes every expired session and reports how many.
func (s *MemoryStore) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, rec := range s.records {
		if now.After(rec.expiresAt) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// Close stops the background sweep.
func (s *MemoryStore) Close() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *MemoryStore) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.CleanExpired()
		case <-s.stopCleanup:
			return
		}
	}
}
