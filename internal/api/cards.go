package api

import (
	"errors"
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/google/uuid"       // Card identifier generation
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/validate"
)

// CardRequest carries card create/update fields
type CardRequest struct {
	ID         string  `json:"id"`
	HolderName string  `json:"holderName"`
	LastFour   string  `json:"lastFour"`
	Expiry     string  `json:"expiry"`
	Balance    float64 `json:"balance"`
	Currency   string  `json:"currency"`
	Brand      string  `json:"brand"`
}

// validatedCard checks the shared card fields and returns them
// normalized, or writes the 400 response and reports false.
func validatedCard(c *gin.Context, req *CardRequest) bool {
	var err error
	if req.LastFour, err = validate.LastFour(req.LastFour); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if req.Expiry, err = validate.CardExpiry(req.Expiry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if req.Currency, err = validate.Currency(req.Currency); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if req.Brand, err = validate.Brand(req.Brand); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if req.HolderName = validate.SanitizeString(req.HolderName, 100); req.HolderName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cardholder name is required"})
		return false
	}
	return true
}

// GetCardHandler returns the user's default card, or a placeholder when
// no card exists yet
func GetCardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		var card domain.Card
		err := db.Where("user_id = ?", userID).Order("is_default desc").First(&card).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First contact: the dashboard renders an empty card
			c.JSON(http.StatusOK, gin.H{
				"holderName": "New User", "lastFour": "0000", "expiry": "",
				"balance": 0, "currency": "USD", "brand": "visa",
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch card"})
			return
		}
		c.JSON(http.StatusOK, card)
	}
}

// ListCardsHandler returns all of the user's cards, default first
func ListCardsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cards []domain.Card
		if err := db.Where("user_id = ?", middleware.UserID(c)).
			Order("is_default desc").Find(&cards).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cards"})
			return
		}
		c.JSON(http.StatusOK, cards)
	}
}

// CreateCardHandler adds a new card; a user's first card becomes the
// default automatically
func CreateCardHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		var req CardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !validatedCard(c, &req) {
			return
		}
		balance, err := validate.Amount(req.Balance, validate.AmountOpts{Min: 0, Max: 10000000})
		if err != nil {
			balance = 0 // Tolerate a missing opening balance
		}
		var count int64
		if err := db.Model(&domain.Card{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add card"})
			return
		}
		card := domain.Card{
			ID:         "card_" + uuid.NewString(),
			UserID:     userID,
			HolderName: req.HolderName,
			LastFour:   req.LastFour,
			Expiry:     req.Expiry,
			Balance:    balance,
			Currency:   req.Currency,
			Brand:      req.Brand,
			IsDefault:  count == 0, // First card becomes the default
		}
		if err := db.Create(&card).Error; err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Failed to add card")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add card"})
			return
		}
		invalidateAnalytics(c, rdb, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Card added", "id": card.ID})
	}
}

// UpdateCardHandler updates display details of an existing card
func UpdateCardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		var req CardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		cardID, err := validate.ID(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !validatedCard(c, &req) {
			return
		}
		res := db.Model(&domain.Card{}).
			Where("id = ? AND user_id = ?", cardID, userID).
			Updates(map[string]any{
				"holder_name": req.HolderName,
				"number":      req.LastFour,
				"expiry":      req.Expiry,
				"currency":    req.Currency,
				"brand":       req.Brand,
			})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Card updated", "changes": res.RowsAffected})
	}
}

// DeleteCardHandler removes a card and cascades to its transactions
func DeleteCardHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		cardID, err := validate.ID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var deleted int64
		err = db.Transaction(func(tx *gorm.DB) error {
			// Card deletion is the only path that removes ledger rows
			if err := tx.Where("card_id = ? AND user_id = ?", cardID, userID).
				Delete(&domain.Transaction{}).Error; err != nil {
				return err
			}
			res := tx.Where("id = ? AND user_id = ?", cardID, userID).Delete(&domain.Card{})
			deleted = res.RowsAffected
			return res.Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"card_id": cardID, "error": err.Error()}).Error("Failed to delete card")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card"})
			return
		}
		invalidateAnalytics(c, rdb, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Card deleted", "changes": deleted})
	}
}

// SetDefaultCardRequest names the card to promote
type SetDefaultCardRequest struct {
	CardID string `json:"cardId" binding:"required"`
}

// SetDefaultCardHandler promotes one card to default. The invariant of
// at most one default per user is enforced by unsetting every card
// first, then setting the chosen one, inside one transaction.
func SetDefaultCardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		var req SetDefaultCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		cardID, err := validate.ID(req.CardID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&domain.Card{}).Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
			return tx.Model(&domain.Card{}).Where("id = ? AND user_id = ?", cardID, userID).
				Update("is_default", true).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update default card"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Default card updated", "cardId": cardID})
	}
}

// MaskCardNumber renders a masked display number keeping the last four
// digits visible.
func MaskCardNumber(lastFour string) string {
	if len(lastFour) < 4 {
		return "****"
	}
	return "**** **** **** " + lastFour[len(lastFour)-4:]
}
