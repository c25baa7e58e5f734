package domain

// BudgetGoal Model. One row per (user, category); setting the same
// category again overwrites the limit instead of adding a row.
type BudgetGoal struct {
	ID          uint    `gorm:"primaryKey" json:"id"` // Primary key
	UserID      uint    `gorm:"uniqueIndex:idx_user_category;not null" json:"-"`
	Category    string  `gorm:"uniqueIndex:idx_user_category;not null" json:"category"`
	AmountLimit float64 `json:"amount_limit"`
	Period      string  `gorm:"default:monthly" json:"period"`
}
