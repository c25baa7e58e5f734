package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Reference generation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/validate"
)

// PaymentRequest carries the record-payment fields
type PaymentRequest struct {
	CardID    string  `json:"cardId"`
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
}

// ListPaymentsHandler returns the user's payment history, newest first
func ListPaymentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payments []domain.Payment
		if err := db.Where("user_id = ?", middleware.UserID(c)).
			Order("date desc").Find(&payments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

// CreatePaymentHandler records a payment row
func CreatePaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		amount, err := validate.Amount(req.Amount, validate.AmountOpts{Min: 0.01, Max: 1000000})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		recipient := validate.SanitizeString(req.Recipient, 200)
		if recipient == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient is required"})
			return
		}
		date, err := validate.Date(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := validate.PaymentStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
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
		p := domain.Payment{
			UserID: userID, CardID: cardID, Amount: amount,
			Recipient: recipient, Date: date, Status: status,
			Reference: newReference("PAY"),
		}
		if err := db.Create(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment recorded", "id": p.ID, "reference": p.Reference})
	}
}

// newReference builds a short human-pasteable reference like
// PAY-LX2K9QZ3 from the current millisecond timestamp.
func newReference(prefix string) string {
	return prefix + "-" + strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
}
