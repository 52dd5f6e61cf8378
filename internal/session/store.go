package session

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long an idle session's entries are kept.
const DefaultTTL = 12 * time.Hour

// Store is a session-scoped string key-value store. Entries for a scope
// expire together once the scope has been idle for the store's TTL.
type Store interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Clear(ctx context.Context, scope string) error
	HealthCheck(ctx context.Context) error
}

type memoryScope struct {
	values    map[string]string
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	scopes map[string]*memoryScope
	ttl    time.Duration
	now    func() time.Time
	mu     sync.Mutex
}

// NewMemoryStore creates a new in-memory session store. A non-positive ttl
// uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		scopes: make(map[string]*memoryScope),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.live(scope)
	if !ok {
		return "", false, nil
	}
	v, ok := sc.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.live(scope)
	if !ok {
		sc = &memoryScope{values: make(map[string]string)}
		s.scopes[scope] = sc
	}
	sc.values[key] = value
	sc.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, scope)
	return nil
}

func (s *MemoryStore) HealthCheck(context.Context) error {
	return nil
}

// live returns the scope if it exists and has not expired. Callers hold mu.
func (s *MemoryStore) live(scope string) (*memoryScope, bool) {
	sc, ok := s.scopes[scope]
	if !ok {
		return nil, false
	}
	if !s.now().Before(sc.expiresAt) {
		delete(s.scopes, scope)
		return nil, false
	}
	return sc, true
}
