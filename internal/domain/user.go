package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`         // Primary key
	Email        string    `gorm:"unique;not null" json:"email"` // Unique, stored lowercased
	PasswordHash string    `gorm:"not null" json:"-"`            // bcrypt hash, never serialized
	Name         string    `gorm:"not null" json:"name"`         // Display name
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
