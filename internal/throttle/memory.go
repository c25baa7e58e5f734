package throttle

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the mutex-guarded map implementation for tests and
// single-process runs.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]record
}

type record struct {
	count int64
	last  time.Time
}

// NewMemoryStore creates an empty in-memory throttle store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]record)}
}

// Fail increments the counter for key under the lock.
func (m *MemoryStore) Fail(_ context.Context, key string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[key]
	rec.count++
	rec.last = at
	m.records[key] = rec
	return rec.count, nil
}

// Get returns the record for key.
func (m *MemoryStore) Get(_ context.Context, key string) (int64, time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok {
		return 0, time.Time{}, false, nil
	}
	return rec.count, rec.last, true, nil
}

// Clear removes the record for key.
func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}
