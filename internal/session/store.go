package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/wealthguard/internal/domain"
)

// ErrNoSession is returned for unknown, expired or logged-out sessions.
var ErrNoSession = errors.New("no active session")

// Store keeps session state per connection.
type Store interface {
	Get(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, sess domain.Session) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

// NewMemoryStore builds a store. A non-positive ttl keeps sessions until deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: make(map[string]memoryEntry)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, ErrNoSession
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return domain.Session{}, ErrNoSession
	}
	return cloneSession(entry.session), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{session: cloneSession(sess)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.sessions[sess.ID] = entry
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func cloneSession(sess domain.Session) domain.Session {
	sess.CurrentUser = sess.CurrentUser.Clone()
	sess.ActingUser = sess.ActingUser.Clone()
	return sess
}
