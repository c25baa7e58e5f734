package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm" // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
)

// fakeTokenStore keeps records in a map keyed by token value.
type fakeTokenStore struct {
	records map[string]domain.RememberToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{records: make(map[string]domain.RememberToken)}
}

func (f *fakeTokenStore) DeleteForUser(_ context.Context, userID uint) error {
	for tok, rec := range f.records {
		if rec.UserID == userID {
			delete(f.records, tok)
		}
	}
	return nil
}

func (f *fakeTokenStore) Create(_ context.Context, t *domain.RememberToken) error {
	f.records[t.Token] = *t
	return nil
}

func (f *fakeTokenStore) Find(_ context.Context, token string) (*domain.RememberToken, error) {
	rec, ok := f.records[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (f *fakeTokenStore) Delete(_ context.Context, token string) error {
	delete(f.records, token)
	return nil
}

// fakeUserStore serves a fixed set of users by id and email.
type fakeUserStore struct {
	users map[uint]domain.User
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user := u
	return &user, nil
}

func (f *fakeUserStore) Create(_ context.Context, email, passwordHash, name string) (*domain.User, error) {
	id := uint(len(f.users) + 1)
	u := domain.User{ID: id, Email: email, PasswordHash: passwordHash, Name: name}
	f.users[id] = u
	return &u, nil
}

func newTestIssuer() (*Issuer, *fakeTokenStore, *time.Time) {
	tokens := newFakeTokenStore()
	users := &fakeUserStore{users: map[uint]domain.User{
		7: {ID: 7, Email: "user@example.com", Name: "Test User"},
	}}
	now := time.Now()
	iss := NewIssuer(tokens, users)
	iss.SetClock(func() time.Time { return now })
	return iss, tokens, &now
}

func TestIssueAndRedeem(t *testing.T) {
	ctx := context.Background()
	iss, _, _ := newTestIssuer()

	token, err := iss.Issue(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, token, 128) // 64 random bytes, hex encoded

	user, err := iss.Redeem(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)

	// Redemption is not consumption; the token still works.
	user, err = iss.Redeem(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
}

func TestIssueSupersedesPreviousToken(t *testing.T) {
	ctx := context.Background()
	iss, tokens, _ := newTestIssuer()

	first, err := iss.Issue(ctx, 7)
	require.NoError(t, err)
	second, err := iss.Issue(ctx, 7)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = iss.Redeem(ctx, first)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Redeem(ctx, second)
	assert.NoError(t, err)
	assert.Len(t, tokens.records, 1)
}

func TestRedeemExpiredTokenDeletesRecord(t *testing.T) {
	ctx := context.Background()
	iss, tokens, now := newTestIssuer()

	token, err := iss.Issue(ctx, 7)
	require.NoError(t, err)

	*now = now.Add(RememberTokenTTL + time.Hour)
	_, err = iss.Redeem(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Empty(t, tokens.records)

	// A second attempt hits the deleted record.
	_, err = iss.Redeem(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemUnknownToken(t *testing.T) {
	ctx := context.Background()
	iss, _, _ := newTestIssuer()

	_, err := iss.Redeem(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemOrphanedToken(t *testing.T) {
	ctx := context.Background()
	iss, tokens, _ := newTestIssuer()

	// Token points at a user that no longer exists.
	require.NoError(t, tokens.Create(ctx, &domain.RememberToken{
		UserID:    99,
		Token:     "orphan",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	_, err := iss.Redeem(ctx, "orphan")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
