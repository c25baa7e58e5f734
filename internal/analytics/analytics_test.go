package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
)

// A fixed mid-month reference keeps month/last-month windows unambiguous.
var refNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func tx(daysAgo int, amount float64, txType string) domain.Transaction {
	return domain.Transaction{
		Date:   Day(refNow.AddDate(0, 0, -daysAgo)),
		Amount: amount,
		Type:   txType,
	}
}

func TestSpendingWindows(t *testing.T) {
	txs := []domain.Transaction{
		tx(0, -50, "food"),
		tx(1, -60, "transport"),
		tx(0, 1000, "salary"),
	}

	assert.Equal(t, 50.0, TodaySpending(txs, refNow))
	assert.Equal(t, 110.0, WeekSpending(txs, refNow))
	assert.Equal(t, 110.0, MonthSpending(txs, refNow))
}

func TestSpendingInWindowBoundsInclusive(t *testing.T) {
	txs := []domain.Transaction{
		tx(0, -10, "food"),
		tx(3, -20, "food"),
		tx(4, -40, "food"), // Just outside the window below
	}
	start := Day(refNow.AddDate(0, 0, -3))
	end := Day(refNow)
	assert.Equal(t, 30.0, SpendingInWindow(txs, start, end))
}

func TestLastMonthSpending(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-02-01", Amount: -100, Type: "bills"},
		{Date: "2025-02-28", Amount: -25, Type: "food"},
		{Date: "2025-03-01", Amount: -500, Type: "food"},  // Current month
		{Date: "2025-01-31", Amount: -999, Type: "other"}, // Two months back
	}
	assert.Equal(t, 125.0, LastMonthSpending(txs, refNow))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, PercentChange(120, 0)) // Floor instead of dividing by zero
	assert.Equal(t, 50.0, PercentChange(150, 100))
	assert.Equal(t, -50.0, PercentChange(50, 100))
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []domain.Transaction{
		tx(0, -50, "food"),
		tx(1, -30, "food"),
		tx(2, -20, ""),          // Unclassified lands in "other"
		tx(0, 1000, "salary"),   // Income excluded
		tx(3, 200, "freelance"), // Income excluded
	}
	got := CategoryBreakdown(txs)
	assert.Equal(t, map[string]float64{"food": 80, "other": 20}, got)
}

func TestDailyTrend(t *testing.T) {
	txs := []domain.Transaction{
		tx(0, -50, "food"),
		tx(6, -10, "food"),
		tx(7, -99, "food"), // Outside the 7-day window
	}
	trend := DailyTrend(txs, refNow, 7)

	assert.Len(t, trend, 7)
	// Oldest first, today last
	assert.Equal(t, Day(refNow.AddDate(0, 0, -6)), trend[0].Date)
	assert.Equal(t, Day(refNow), trend[6].Date)
	assert.Equal(t, 10.0, trend[0].Amount)
	assert.Equal(t, 50.0, trend[6].Amount)
	assert.Equal(t, 0.0, trend[3].Amount)
	assert.Equal(t, refNow.Format("Mon"), trend[6].Label)
}

func TestBiggestExpense(t *testing.T) {
	assert.Nil(t, BiggestExpense(nil))
	assert.Nil(t, BiggestExpense([]domain.Transaction{tx(0, 100, "salary")}))

	txs := []domain.Transaction{
		{Title: "coffee", Date: "2025-03-10", Amount: -5},
		{Title: "rent", Date: "2025-03-01", Amount: -900},
		{Title: "salary", Date: "2025-03-01", Amount: 2000},
		{Title: "rent-twin", Date: "2025-03-02", Amount: -900}, // Tie loses to first
	}
	got := BiggestExpense(txs)
	assert.Equal(t, "rent", got.Title)

	// Returned value is a copy; mutating it must not touch the input
	got.Title = "changed"
	assert.Equal(t, "rent", txs[1].Title)
}

func TestSavingsStreakFullLookback(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 30; i++ {
		txs = append(txs, tx(i, -49.99, "food"))
	}
	assert.Equal(t, 30, SavingsStreak(txs, refNow, 50, 30))
}

func TestSavingsStreakStrictThreshold(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 30; i++ {
		txs = append(txs, tx(i, -10, "food"))
	}
	// Exactly at the threshold on day 5 breaks the streak there
	txs = append(txs, tx(5, -40, "food"))
	assert.Equal(t, 5, SavingsStreak(txs, refNow, 50, 30))
}

func TestSavingsStreakNoTransactions(t *testing.T) {
	// No spending at all counts as under threshold every day
	assert.Equal(t, 30, SavingsStreak(nil, refNow, 50, 30))
}

func TestAggregatorDoesNotMutateInput(t *testing.T) {
	txs := []domain.Transaction{
		tx(0, -50, "food"),
		tx(1, -60, "transport"),
	}
	snapshot := make([]domain.Transaction, len(txs))
	copy(snapshot, txs)

	TodaySpending(txs, refNow)
	CategoryBreakdown(txs)
	DailyTrend(txs, refNow, 7)
	BiggestExpense(txs)
	SavingsStreak(txs, refNow, 50, 30)

	assert.Equal(t, snapshot, txs)
}

func TestAchievements(t *testing.T) {
	txs := []domain.Transaction{tx(0, -20, "food")}
	got := Achievements(txs, 2500, refNow)

	byID := map[string]bool{}
	for _, a := range got {
		byID[a.ID] = a.Earned
	}
	assert.True(t, byID["budget_master"]) // Under 500 this month
	assert.True(t, byID["saver"])         // Balance over 1000
	assert.True(t, byID["streak"])        // Every day under 50
	assert.True(t, byID["first"])

	got = Achievements(nil, 0, refNow)
	for _, a := range got {
		if a.ID == "first" {
			assert.False(t, a.Earned)
		}
	}
}
