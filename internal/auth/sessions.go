package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions holds opaque session tokens in memory. Tokens expire after
// the configured TTL; a background janitor drops stale entries.
type Sessions struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]session
}

type session struct {
	userID    int64
	expiresAt time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:     ttl,
		entries: make(map[string]session),
	}
}

// Start issues a fresh token for the user.
func (s *Sessions) Start(userID int64) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = session{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// Resolve returns the user id behind a token, if it is still valid.
func (s *Sessions) Resolve(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return 0, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, token)
		return 0, false
	}
	return entry.userID, true
}

// End invalidates a token. Ending an unknown token is a no-op.
func (s *Sessions) End(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
}

// Janitor drops expired sessions every interval until stop is closed.
func (s *Sessions) Janitor(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sessions) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
}
