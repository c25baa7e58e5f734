package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm" // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
)

// ErrDuplicateEmail is returned by Create when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// UserStore looks up and creates user records. Emails are normalized to
// lowercase before every lookup and write.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	Create(ctx context.Context, email, passwordHash, name string) (*domain.User, error)
}

// GormUserStore is the MySQL-backed UserStore.
type GormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore binds the store to a gorm handle.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// FindByEmail returns the user for the lowercased email, or
// gorm.ErrRecordNotFound.
func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns the user by primary key, or gorm.ErrRecordNotFound.
func (s *GormUserStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. A violated unique constraint on email maps
// to ErrDuplicateEmail.
func (s *GormUserStore) Create(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	user := domain.User{Email: strings.ToLower(email), PasswordHash: passwordHash, Name: name}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}
