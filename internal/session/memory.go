package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	st      State
	expires time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	sessions  map[string]memEntry
	now       func() time.Time
	newTicket func() (string, error)
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an in-process store. ttl <= 0 means DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, sessions: map[string]memEntry{}, now: time.Now, newTicket: newTicket}
}

func (s *MemoryStore) Load(_ context.Context, ticket string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[ticket]
	if !ok {
		return State{}, nil
	}
	if s.now().After(e.expires) {
		delete(s.sessions, ticket)
		return State{}, nil
	}
	e.expires = s.now().Add(s.ttl)
	s.sessions[ticket] = e
	return e.st, nil
}

func (s *MemoryStore) Save(_ context.Context, ticket string, st State) (string, error) {
	if ticket == "" {
		t, err := s.newTicket()
		if err != nil {
			return "", err
		}
		ticket = t
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ticket] = memEntry{st: st, expires: s.now().Add(s.ttl)}
	return ticket, nil
}

func (s *MemoryStore) Destroy(_ context.Context, ticket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ticket)
	return nil
}
