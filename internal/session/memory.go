package session

import (
	"context"
	"sync"
	"time"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
)

type memorySession struct {
	history  []Message
	draft    booking.Draft
	lastSeen time.Time
}

// MemoryStore is an in-process Store for development and tests. Idle
// sessions past the TTL are dropped lazily on access.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an in-memory session store. A non-positive ttl
// falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) session(id string) *memorySession {
	sess, ok := s.sessions[id]
	if ok && s.now().Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		ok = false
	}
	if !ok {
		sess = &memorySession{}
		s.sessions[id] = sess
	}
	sess.lastSeen = s.now()
	return sess
}

func (s *MemoryStore) History(_ context.Context, sessionID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(sessionID)
	out := make([]Message, len(sess.history))
	copy(out, sess.history)
	return out, nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, sessionID string, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(sessionID)
	sess.history = append(sess.history, msgs...)
	if n := len(sess.history); n > MaxHistory {
		sess.history = sess.history[n-MaxHistory:]
	}
	return nil
}

func (s *MemoryStore) Draft(_ context.Context, sessionID string) (booking.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session(sessionID).draft, nil
}

func (s *MemoryStore) SaveDraft(_ context.Context, sessionID string, draft booking.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(sessionID).draft = draft
	return nil
}

func (s *MemoryStore) ClearDraft(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(sessionID).draft = booking.Draft{}
	return nil
}

var _ Store = (*MemoryStore)(nil)
