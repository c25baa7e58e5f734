package domain

// Card Model
type Card struct {
	ID         string  `gorm:"primaryKey" json:"id"`          // Opaque id, e.g. card_<uuid>
	UserID     uint    `gorm:"index;not null" json:"-"`       // Foreign key to User
	HolderName string  `json:"holderName"`                    // Cardholder display name
	LastFour   string  `gorm:"column:number" json:"lastFour"` // Only the last 4 digits are kept
	Expiry     string  `json:"expiry"`                        // MM/YY, optional
	Balance    float64 `gorm:"not null;default:0" json:"balance"`
	Currency   string  `gorm:"default:USD" json:"currency"`
	Brand      string  `gorm:"default:visa" json:"brand"`
	IsDefault  bool    `gorm:"default:false" json:"isDefault"` // At most one default per user
}
