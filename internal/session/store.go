// Package session tracks users who ran the analyze command without
// attaching an image and are expected to send one shortly.
package session

import (
	"sync"
	"time"

	"github.com/nightdust/imgmeta/internal/logger"
)

// Store is a TTL-bounded waiting-session registry keyed by user ID.
// Each entry carries its creation time and a timeout callback that
// fires exactly once unless the entry is claimed first.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	closed  bool
}

type entry struct {
	created time.Time
	timer   *time.Timer
}

// NewStore creates a store with the given per-entry TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

// Put registers a waiting session for the user, replacing any
// existing one. onTimeout runs when the TTL elapses before a claim.
func (s *Store) Put(userID string, onTimeout func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if old, ok := s.entries[userID]; ok {
		old.timer.Stop()
	}

	e := &entry{created: time.Now()}
	e.timer = time.AfterFunc(s.ttl, func() {
		if s.expire(userID, e) {
			logger.Debug("waiting session for %s timed out", userID)
			if onTimeout != nil {
				onTimeout()
			}
		}
	})
	s.entries[userID] = e
	logger.Debug("user %s is now waiting for an image (%s)", userID, s.ttl)
}

// Claim consumes the user's waiting session. It returns false when
// no live session exists.
func (s *Store) Claim(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		return false
	}
	// The timer may be about to fire; the created check keeps a
	// just-expired entry from being claimed.
	if time.Since(e.created) > s.ttl {
		return false
	}
	e.timer.Stop()
	delete(s.entries, userID)
	return true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close cancels all pending timers; no timeout callbacks fire after
// Close returns.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for _, e := range s.entries {
		e.timer.Stop()
	}
	s.entries = make(map[string]*entry)
}

// expire removes the entry if it is still the same one the timer was
// armed for.
func (s *Store) expire(userID string, e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	current, ok := s.entries[userID]
	if !ok || current != e {
		return false
	}
	delete(s.entries, userID)
	return true
}
