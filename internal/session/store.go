package session

import (
	"context"
	"time"
)

// Store is the shared key-value backing for sessions. The process never
// holds session state in its own memory in production; a shared store
// keeps multi-instance deployments consistent.
type Store interface {
	// Get returns the session for id. found is false when the id is
	// unknown or expired.
	Get(ctx context.Context, id string) (s *Session, found bool, err error)
	// Save upserts the session with the given lifetime.
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	// Delete removes the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
