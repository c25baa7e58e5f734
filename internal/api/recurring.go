package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/validate"
)

// RecurringRequest carries the recurring-charge fields
type RecurringRequest struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Frequency   string  `json:"frequency"`
	NextDueDate string  `json:"next_due_date"`
	Icon        string  `json:"icon"`
}

// ListRecurringHandler returns the user's recurring charges
func ListRecurringHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []domain.RecurringCharge
		if err := db.Where("user_id = ?", middleware.UserID(c)).Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recurring transactions"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// CreateRecurringHandler adds a recurring charge
func CreateRecurringHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecurringRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		title := validate.SanitizeString(req.Title, 200)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		amount, err := validate.Amount(req.Amount, validate.DefaultAmountOpts())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		txType, err := validate.TransactionType(req.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		freq, err := validate.Frequency(req.Frequency)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		due, err := validate.Date(req.NextDueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		icon := validate.SanitizeString(req.Icon, 50)
		if icon == "" {
			icon = "circle"
		}
		row := domain.RecurringCharge{
			UserID: middleware.UserID(c), Title: title, Amount: amount,
			Type: txType, Frequency: freq, NextDueDate: due, Icon: icon, Active: true,
		}
		if err := db.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add recurring transaction"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": row.ID, "message": "Recurring transaction added"})
	}
}

// DeleteRecurringHandler removes a recurring charge
func DeleteRecurringHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validate.ID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res := db.Where("id = ? AND user_id = ?", id, middleware.UserID(c)).
			Delete(&domain.RecurringCharge{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recurring transaction"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Recurring transaction deleted", "changes": res.RowsAffected})
	}
}
