package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

const (
	// CookieName is the session identifier cookie.
	CookieName = "cc_session"
	// DefaultTTL is the inactivity window for ordinary sessions.
	DefaultTTL = 24 * time.Hour
	// ExtendedTTL applies once remember-me is requested or a remember
	// token is redeemed.
	ExtendedTTL = 30 * 24 * time.Hour
)

// Session is the per-client server-side state. UserID zero means the
// session exists but is not authenticated.
type Session struct {
	ID         string `json:"id"`
	UserID     uint   `json:"user_id"`
	CSRFToken  string `json:"csrf_token"`
	RememberMe bool   `json:"remember_me"`
}

// Authenticated reports whether a user is bound to the session.
func (s *Session) Authenticated() bool { return s.UserID != 0 }

// Manager creates, loads, rotates and destroys sessions on top of a
// pluggable Store (Redis in production, in-memory in tests).
type Manager struct {
	store        Store
	SecureCookie bool // Mark the cookie Secure when serving over TLS
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store, secureCookie bool) *Manager {
	return &Manager{store: store, SecureCookie: secureCookie}
}

// TTL returns the lifetime the session should be stored with.
func (m *Manager) TTL(s *Session) time.Duration {
	if s.RememberMe {
		return ExtendedTTL
	}
	return DefaultTTL
}

// Load fetches the session for id, or lazily creates a fresh one when
// the id is empty or unknown. The returned session always carries a
// CSRF token. Loading also refreshes the inactivity window.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id != "" {
		s, found, err := m.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			// Sliding expiry: every request pushes the window forward.
			if err := m.store.Save(ctx, s, m.TTL(s)); err != nil {
				return nil, err
			}
			return s, nil
		}
	}
	return m.create(ctx)
}

// create builds a brand-new anonymous session with a fresh CSRF token.
func (m *Manager) create(ctx context.Context) (*Session, error) {
	s := &Session{ID: newID(), CSRFToken: NewCSRFToken()}
	if err := m.store.Save(ctx, s, DefaultTTL); err != nil {
		return nil, err
	}
	return s, nil
}

// Save persists the session with the TTL matching its remember-me flag.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	return m.store.Save(ctx, s, m.TTL(s))
}

// Regenerate swaps the session id and CSRF token in place. Called on
// every successful login so a fixated pre-login id becomes worthless.
// The caller is responsible for re-writing the cookie.
func (m *Manager) Regenerate(ctx context.Context, s *Session) error {
	old := s.ID
	s.ID = newID()
	s.CSRFToken = NewCSRFToken()
	if err := m.store.Save(ctx, s, m.TTL(s)); err != nil {
		return err
	}
	return m.store.Delete(ctx, old)
}

// Destroy removes the session from the store.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	return m.store.Delete(ctx, s.ID)
}

// NewCSRFToken returns a fresh 256-bit hex-encoded token.
func NewCSRFToken() string { return randomHex(32) }

// newID returns an opaque session identifier.
func newID() string { return randomHex(32) }

func randomHex(n int) string {
	b := make([]byte, n)
	// crypto/rand.Read never fails on supported platforms.
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
