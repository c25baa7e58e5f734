package domain

// RecurringCharge Model
type RecurringCharge struct {
	ID          uint    `gorm:"primaryKey" json:"id"` // Primary key
	UserID      uint    `gorm:"index;not null" json:"-"`
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Frequency   string  `json:"frequency"` // daily, weekly, biweekly, monthly, quarterly, yearly
	NextDueDate string  `json:"next_due_date"`
	Icon        string  `json:"icon"`
	Active      bool    `gorm:"default:true" json:"active"`
}

// TableName keeps the table in line with the historical schema name.
func (RecurringCharge) TableName() string { return "recurring_transactions" }
