package domain

import "time"

// RememberToken Model. At most one active token per user; issuing a new
// one deletes the previous rows before inserting.
type RememberToken struct {
	ID        uint      `gorm:"primaryKey"` // Primary key
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"unique;not null"` // Opaque random value, also the lookup key
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
