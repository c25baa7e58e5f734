package domain

// Transaction Model
type Transaction struct {
	ID     uint    `gorm:"primaryKey" json:"id"` // Primary key
	UserID uint    `gorm:"index;not null" json:"-"`
	CardID *string `gorm:"index" json:"card_id"` // Optional card the amount was posted to
	Title  string  `json:"title"`
	Date   string  `gorm:"index;not null" json:"date"` // Calendar day, YYYY-MM-DD
	Amount float64 `json:"amount"`                     // Negative is an expense, positive income
	Type   string  `json:"type"`                       // Category from the closed enumeration
	Icon   string  `json:"icon"`                       // Display metadata
}
