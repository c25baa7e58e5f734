package api

import (
	"errors"
	"math"     // Cent rounding for the response balance
	"net/http" // HTTP status codes
	"time"     // Posting date

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/analytics"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/validate"
)

// MaxTransferAmount caps a single send-money operation.
const MaxTransferAmount = 50000

// TransferRequest carries the send-money fields
type TransferRequest struct {
	CardID           string  `json:"cardId"`
	RecipientName    string  `json:"recipientName"`
	RecipientContact string  `json:"recipientContact"`
	Amount           float64 `json:"amount"`
	Note             string  `json:"note"`
}

// TransferHandler debits a card and records both the payment and the
// ledger entry. All three writes run in one database transaction: a
// failed ledger insert rolls the debit back instead of leaving the
// balance changed with no corresponding entry.
func TransferHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		var req TransferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid amount"})
			return
		}
		if req.Amount > MaxTransferAmount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transfer amount cannot exceed $50,000"})
			return
		}
		amount, err := validate.Amount(req.Amount, validate.AmountOpts{Min: 0.01, Max: MaxTransferAmount})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid amount"})
			return
		}
		name := validate.SanitizeString(req.RecipientName, 200)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient name is required"})
			return
		}
		note := validate.SanitizeString(req.Note, 500)
		cardID, err := validate.ID(req.CardID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID"})
			return
		}

		var card domain.Card
		if err := db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if card.Balance < amount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
			return
		}

		reference := newReference("TRF")
		today := analytics.Day(time.Now())
		title := "Transfer to " + name
		if note != "" {
			title += " - " + note
		}

		// Atomic transfer
		err = db.Transaction(func(tx *gorm.DB) error {
			// Debit the card
			if err := tx.Model(&domain.Card{}).
				Where("id = ? AND user_id = ?", cardID, userID).
				Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
				return err
			}
			// Record as payment
			p := domain.Payment{
				UserID: userID, CardID: &cardID, Amount: amount,
				Recipient: name, Date: today, Status: "completed", Reference: reference,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			// Record as ledger entry (expense)
			t := domain.Transaction{
				UserID: userID, CardID: &cardID, Title: title,
				Date: today, Amount: -amount, Type: "transfer", Icon: "send",
			}
			return tx.Create(&t).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"card_id": cardID,
				"amount":  amount,
				"error":   err.Error(),
			}).Error("Transfer failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transfer failed"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"card_id":   cardID,
			"amount":    amount,
			"reference": reference,
		}).Info("Transfer transaction")

		invalidateAnalytics(c, rdb, userID)
		c.JSON(http.StatusOK, gin.H{
			"message":    "Transfer successful!",
			"reference":  reference,
			"amount":     amount,
			"recipient":  name,
			"newBalance": math.Round((card.Balance-amount)*100) / 100,
		})
	}
}
