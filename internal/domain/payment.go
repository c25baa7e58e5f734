package domain

// Payment Model
type Payment struct {
	ID        uint    `gorm:"primaryKey" json:"id"` // Primary key
	UserID    uint    `gorm:"index;not null" json:"-"`
	CardID    *string `json:"card_id"`
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient"`
	Date      string  `json:"date"`      // Calendar day, YYYY-MM-DD
	Status    string  `json:"status"`    // pending, completed, failed, cancelled
	Reference string  `json:"reference"` // e.g. PAY-XXXX / TRF-XXXX
}
