package api

import (
	"context" // Context for Redis operations
	"errors"
	"math"
	"net/http" // HTTP status codes
	"time"     // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/analytics"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/cache"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
)

// analyticsCacheTTL bounds how stale a cached summary may be.
const analyticsCacheTTL = 60 * time.Second

// BiggestExpensePayload is the trimmed biggest-expense view.
type BiggestExpensePayload struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"` // Absolute value
	Date   string  `json:"date"`
}

// AnalyticsResponse is the derived dashboard summary.
type AnalyticsResponse struct {
	TodaySpending     float64                 `json:"todaySpending"`
	WeekSpending      float64                 `json:"weekSpending"`
	MonthSpending     float64                 `json:"monthSpending"`
	LastMonthSpending float64                 `json:"lastMonthSpending"`
	MonthChange       float64                 `json:"monthChange"` // Percent, one decimal
	Categories        map[string]float64      `json:"categories"`
	DailyTrend        []analytics.TrendPoint  `json:"dailyTrend"`
	BiggestExpense    *BiggestExpensePayload  `json:"biggestExpense"`
	SavingsStreak     int                     `json:"savingsStreak"`
	Achievements      []analytics.Achievement `json:"achievements"`
	TotalTransactions int                     `json:"totalTransactions"`
}

// AnalyticsHandler computes the spending summary for the user's ledger.
// The aggregation itself is pure; this handler supplies the transaction
// set, the reference instant, and a short-lived Redis cache in front.
func AnalyticsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		ctx := context.Background()
		cacheKey := analyticsCacheKey(userID)

		// Serve from cache when a fresh summary exists
		var cached AnalyticsResponse
		if rdb != nil {
			if found, err := cache.Get(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		var txs []domain.Transaction
		if err := db.Where("user_id = ?", userID).Order("date desc").Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}

		// Default card balance feeds the achievement evaluation
		var balance float64
		var card domain.Card
		err := db.Where("user_id = ?", userID).Order("is_default desc").First(&card).Error
		if err == nil {
			balance = card.Balance
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch card"})
			return
		}

		resp := buildAnalytics(txs, balance, time.Now())
		if rdb != nil {
			_ = cache.Set(ctx, rdb, cacheKey, resp, analyticsCacheTTL) // Best effort
		}
		c.JSON(http.StatusOK, resp)
	}
}

// buildAnalytics assembles the summary from the pure aggregator
// functions for the given reference instant.
func buildAnalytics(txs []domain.Transaction, balance float64, now time.Time) AnalyticsResponse {
	month := analytics.MonthSpending(txs, now)
	lastMonth := analytics.LastMonthSpending(txs, now)

	var biggest *BiggestExpensePayload
	if t := analytics.BiggestExpense(txs); t != nil {
		biggest = &BiggestExpensePayload{Title: t.Title, Amount: -t.Amount, Date: t.Date}
	}

	return AnalyticsResponse{
		TodaySpending:     analytics.TodaySpending(txs, now),
		WeekSpending:      analytics.WeekSpending(txs, now),
		MonthSpending:     month,
		LastMonthSpending: lastMonth,
		MonthChange:       math.Round(analytics.PercentChange(month, lastMonth)*10) / 10,
		Categories:        analytics.CategoryBreakdown(txs),
		DailyTrend:        analytics.DailyTrend(txs, now, 7),
		BiggestExpense:    biggest,
		SavingsStreak: analytics.SavingsStreak(txs, now,
			analytics.StreakThresholdPerDay, analytics.StreakLookbackDays),
		Achievements:      analytics.Achievements(txs, balance, now),
		TotalTransactions: len(txs),
	}
}
