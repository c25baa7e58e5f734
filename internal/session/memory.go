package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded map implementation used in tests and
// single-process development runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is injectable so expiry can be tested deterministically.
	now func() time.Time
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// SetClock replaces the store's time source. Test helper.
func (m *MemoryStore) SetClock(now func() time.Time) { m.now = now }

// Get returns a copy of the stored session if present and not expired.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, false, nil
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, id) // Expired, behave like Redis TTL eviction
		return nil, false, nil
	}
	s := e.session
	return &s, true, nil
}

// Save stores a copy of the session with the given lifetime.
func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memoryEntry{session: *s, expiresAt: m.now().Add(ttl)}
	return nil
}

// Delete removes the session if present.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Len reports the number of live entries. Test helper.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
