package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm" // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
)

// RememberTokenTTL is how long an issued token stays redeemable.
const RememberTokenTTL = 30 * 24 * time.Hour

var (
	// ErrInvalidToken means the presented token matches no record.
	ErrInvalidToken = errors.New("invalid remember token")
	// ErrTokenExpired means the record existed but its expiry passed;
	// the record is deleted as a side effect of redemption.
	ErrTokenExpired = errors.New("remember token expired")
)

// TokenStore persists remember tokens. The stored token value is the
// lookup key.
type TokenStore interface {
	// DeleteForUser removes every token belonging to the user.
	DeleteForUser(ctx context.Context, userID uint) error
	// Create inserts a token record.
	Create(ctx context.Context, t *domain.RememberToken) error
	// Find returns the record for the exact token value, or
	// gorm.ErrRecordNotFound.
	Find(ctx context.Context, token string) (*domain.RememberToken, error)
	// Delete removes a token record by value.
	Delete(ctx context.Context, token string) error
}

// GormTokenStore is the MySQL-backed TokenStore.
type GormTokenStore struct {
	db *gorm.DB
}

// NewGormTokenStore binds the store to a gorm handle.
func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func (s *GormTokenStore) DeleteForUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.RememberToken{}).Error
}

func (s *GormTokenStore) Create(ctx context.Context, t *domain.RememberToken) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormTokenStore) Find(ctx context.Context, token string) (*domain.RememberToken, error) {
	var rec domain.RememberToken
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormTokenStore) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.RememberToken{}).Error
}

// Issuer hands out and redeems long-lived reauthentication tokens.
type Issuer struct {
	tokens TokenStore
	users  UserStore
	now    func() time.Time
}

// NewIssuer creates an issuer over the given stores.
func NewIssuer(tokens TokenStore, users UserStore) *Issuer {
	return &Issuer{tokens: tokens, users: users, now: time.Now}
}

// SetClock replaces the time source. Test helper.
func (i *Issuer) SetClock(now func() time.Time) { i.now = now }

// Issue mints a fresh token for the user and returns the plaintext.
// Any previously issued tokens are deleted first, so at most one token
// per user is ever redeemable.
func (i *Issuer) Issue(ctx context.Context, userID uint) (string, error) {
	if err := i.tokens.DeleteForUser(ctx, userID); err != nil {
		return "", err
	}
	token := newRememberToken()
	rec := &domain.RememberToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: i.now().Add(RememberTokenTTL),
	}
	if err := i.tokens.Create(ctx, rec); err != nil {
		return "", err
	}
	return token, nil
}

// Redeem validates a presented token and returns its user. Expired
// records are deleted on sight. Redemption does not consume the token;
// it stays valid until superseded or expired.
func (i *Issuer) Redeem(ctx context.Context, token string) (*domain.User, error) {
	rec, err := i.tokens.Find(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if i.now().After(rec.ExpiresAt) {
		_ = i.tokens.Delete(ctx, token) // Best effort cleanup
		return nil, ErrTokenExpired
	}
	user, err := i.users.FindByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// newRememberToken returns 512 bits of hex-encoded randomness, matching
// the entropy of the session identifiers it substitutes for.
func newRememberToken() string {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
