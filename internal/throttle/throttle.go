// Package throttle rate-limits failed logins per (email, client origin)
// pair. Keying on the pair rather than the account alone keeps one
// attacker from locking a victim out globally while still stopping
// credential stuffing from a single source.
package throttle

import (
	"context"
	"strings"
	"time"
)

const (
	// MaxAttempts is the consecutive-failure count that trips the lock.
	MaxAttempts = 5
	// Window is the sliding lockout window, measured from the most
	// recent failure, not the first one.
	Window = 15 * time.Minute
)

// Store holds failure records in a shared backend so concurrent failed
// logins across instances cannot lose updates.
type Store interface {
	// Fail atomically increments the counter for key and stamps the
	// attempt time, returning the new count.
	Fail(ctx context.Context, key string, at time.Time) (int64, error)
	// Get returns the current count and last attempt time for key.
	Get(ctx context.Context, key string) (count int64, last time.Time, found bool, err error)
	// Clear discards the record for key.
	Clear(ctx context.Context, key string) error
}

// Status is the outcome of a lockout check.
type Status struct {
	Locked     bool
	RetryAfter time.Duration // Remaining lockout time when Locked
}

// Throttle enforces the lockout policy on top of a Store.
type Throttle struct {
	store Store
	now   func() time.Time
}

// New creates a throttle over the given store.
func New(store Store) *Throttle {
	return &Throttle{store: store, now: time.Now}
}

// SetClock replaces the time source. Test helper.
func (t *Throttle) SetClock(now func() time.Time) { t.now = now }

// Key normalizes an (email, origin) pair into a store key.
func Key(email, origin string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "_" + origin
}

// Check reports whether the key is currently locked out. A record whose
// window has elapsed is discarded, implicitly resetting the counter.
func (t *Throttle) Check(ctx context.Context, key string) (Status, error) {
	count, last, found, err := t.store.Get(ctx, key)
	if err != nil {
		return Status{}, err
	}
	if !found || count < MaxAttempts {
		return Status{}, nil
	}
	elapsed := t.now().Sub(last)
	if elapsed < Window {
		return Status{Locked: true, RetryAfter: Window - elapsed}, nil
	}
	// Lockout served; forget the record so the next failure starts at 1.
	if err := t.store.Clear(ctx, key); err != nil {
		return Status{}, err
	}
	return Status{}, nil
}

// RecordFailure counts one failed authentication for the key.
func (t *Throttle) RecordFailure(ctx context.Context, key string) error {
	_, err := t.store.Fail(ctx, key, t.now())
	return err
}

// Clear wipes the failure record. Called on any successful
// authentication for the key.
func (t *Throttle) Clear(ctx context.Context, key string) error {
	return t.store.Clear(ctx, key)
}

// RetryMinutes converts a remaining lockout into the whole minutes
// reported to the client, rounding up so "0 minutes" is never shown.
func RetryMinutes(d time.Duration) int {
	mins := int((d + time.Minute - 1) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return mins
}
