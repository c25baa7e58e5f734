package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
	"gorm.io/gorm/clause"      // Upsert support

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/validate"
)

// BudgetRequest carries the set-budget fields
type BudgetRequest struct {
	Category    string  `json:"category"`
	AmountLimit float64 `json:"amount_limit"`
	Period      string  `json:"period"`
}

// ListBudgetsHandler returns the user's budget goals
func ListBudgetsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []domain.BudgetGoal
		if err := db.Where("user_id = ?", middleware.UserID(c)).Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// SetBudgetHandler upserts the limit for a (user, category) pair.
// Setting the same category twice overwrites the limit; it never
// creates a second row.
func SetBudgetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BudgetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		category, err := validate.BudgetCategory(req.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		limit, err := validate.Amount(req.AmountLimit, validate.AmountOpts{Min: 1, Max: 10000000})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		period, err := validate.BudgetPeriod(req.Period)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		row := domain.BudgetGoal{
			UserID: middleware.UserID(c), Category: category,
			AmountLimit: limit, Period: period,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount_limit"}),
		}).Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set budget"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Budget goal set"})
	}
}
