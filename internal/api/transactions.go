package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/cache"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/validate"
)

// TransactionRequest carries the add-transaction fields
type TransactionRequest struct {
	Title  string  `json:"title"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
	Icon   string  `json:"icon"`
	CardID string  `json:"cardId"`
}

// ListTransactionsHandler returns the user's ledger, newest day first
func ListTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var txs []domain.Transaction
		if err := db.Where("user_id = ?", middleware.UserID(c)).
			Order("date desc").Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

// CreateTransactionHandler records a ledger entry and posts its amount
// to the card balance in the same database transaction, so the balance
// can never drift from the ledger.
func CreateTransactionHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		var req TransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		title := validate.SanitizeString(req.Title, 200)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction title is required"})
			return
		}
		amount, err := validate.Amount(req.Amount, validate.DefaultAmountOpts())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date, err := validate.Date(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		txType, err := validate.TransactionType(req.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		icon := validate.SanitizeString(req.Icon, 50)
		if icon == "" {
			icon = "circle"
		}
		var cardID *string
		if req.CardID != "" {
			id, err := validate.ID(req.CardID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID"})
				return
			}
			cardID = &id
		}

		t := domain.Transaction{
			UserID: userID, CardID: cardID, Title: title,
			Date: date, Amount: amount, Type: txType, Icon: icon,
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
			if cardID != nil {
				// Post the signed amount to the card balance
				return tx.Model(&domain.Card{}).
					Where("id = ? AND user_id = ?", *cardID, userID).
					Update("balance", gorm.Expr("balance + ?", amount)).Error
			}
			return nil
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"amount":  amount,
				"error":   err.Error(),
			}).Error("Failed to add transaction")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add transaction"})
			return
		}
		invalidateAnalytics(c, rdb, userID)
		c.JSON(http.StatusOK, gin.H{
			"message": "Transaction added",
			"id":      t.ID,
			"title":   title,
			"date":    date,
			"amount":  amount,
			"type":    txType,
			"icon":    icon,
		})
	}
}

// invalidateAnalytics drops the cached analytics summary after any
// write that changes what the aggregator would report.
func invalidateAnalytics(c *gin.Context, rdb *redis.Client, userID uint) {
	if rdb == nil {
		return
	}
	ctx := context.Background()
	if err := cache.Delete(ctx, rdb, analyticsCacheKey(userID)); err != nil {
		logrus.WithField("error", err.Error()).Warn("Analytics cache invalidation failed")
	}
}

// analyticsCacheKey builds the per-user analytics cache key.
func analyticsCacheKey(userID uint) string {
	return "analytics:user:" + strconv.Itoa(int(userID))
}
