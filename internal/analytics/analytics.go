// Package analytics derives spending metrics from a transaction ledger.
// Every function is a pure read over its inputs: the reference instant
// is an explicit parameter and the transaction slice is never mutated.
package analytics

import (
	"time"

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
)

// DayFormat is the calendar-day granularity the ledger stores dates in.
const DayFormat = "2006-01-02"

// Day truncates an instant to its calendar day string.
func Day(t time.Time) string { return t.Format(DayFormat) }

// SpendingInWindow sums the absolute values of expense transactions
// (amount < 0) whose date falls inside [start, end], both inclusive.
func SpendingInWindow(txs []domain.Transaction, start, end string) float64 {
	var sum float64
	for _, t := range txs {
		if t.Amount < 0 && t.Date >= start && t.Date <= end {
			sum += -t.Amount
		}
	}
	return sum
}

// TodaySpending is the single-day window for now's calendar day.
func TodaySpending(txs []domain.Transaction, now time.Time) float64 {
	today := Day(now)
	return SpendingInWindow(txs, today, today)
}

// WeekSpending covers the trailing 7 calendar days including today.
func WeekSpending(txs []domain.Transaction, now time.Time) float64 {
	return SpendingInWindow(txs, Day(now.AddDate(0, 0, -6)), Day(now))
}

// MonthSpending covers the first of the current month through now.
func MonthSpending(txs []domain.Transaction, now time.Time) float64 {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return SpendingInWindow(txs, Day(first), Day(now))
}

// LastMonthSpending covers the full previous calendar month.
func LastMonthSpending(txs []domain.Transaction, now time.Time) float64 {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	return SpendingInWindow(txs, Day(first), Day(last))
}

// PercentChange returns the relative change from previous to current in
// percent. A zero previous floors the result at 0 instead of dividing
// by zero.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// CategoryBreakdown totals absolute expense amounts per category.
// Transactions without a type land in the "other" bucket; income is
// excluded entirely.
func CategoryBreakdown(txs []domain.Transaction) map[string]float64 {
	categories := make(map[string]float64)
	for _, t := range txs {
		if t.Amount >= 0 {
			continue
		}
		cat := t.Type
		if cat == "" {
			cat = "other"
		}
		categories[cat] += -t.Amount
	}
	return categories
}

// TrendPoint is one calendar day of the spending trend.
type TrendPoint struct {
	Date   string  `json:"date"`
	Label  string  `json:"day"` // Short weekday name, e.g. "Mon"
	Amount float64 `json:"amount"`
}

// DailyTrend returns one point per calendar day for the trailing days
// window (today included), oldest first.
func DailyTrend(txs []domain.Transaction, now time.Time, days int) []TrendPoint {
	trend := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		day := Day(d)
		trend = append(trend, TrendPoint{
			Date:   day,
			Label:  d.Format("Mon"),
			Amount: SpendingInWindow(txs, day, day),
		})
	}
	return trend
}

// BiggestExpense returns the expense with the largest absolute amount,
// or nil when there are no expenses. Ties keep the first transaction
// encountered in slice order.
func BiggestExpense(txs []domain.Transaction) *domain.Transaction {
	var biggest *domain.Transaction
	for idx, t := range txs {
		if t.Amount >= 0 {
			continue
		}
		if biggest == nil || -t.Amount > -biggest.Amount {
			biggest = &txs[idx]
		}
	}
	if biggest == nil {
		return nil
	}
	cp := *biggest // Callers must not reach back into the input slice
	return &cp
}

// SavingsStreak counts consecutive days, walking backward from now,
// whose expense total stayed strictly under thresholdPerDay. The walk
// stops at the first day at or above the threshold, or after
// lookbackDays.
func SavingsStreak(txs []domain.Transaction, now time.Time, thresholdPerDay float64, lookbackDays int) int {
	streak := 0
	for i := 0; i < lookbackDays; i++ {
		day := Day(now.AddDate(0, 0, -i))
		if SpendingInWindow(txs, day, day) >= thresholdPerDay {
			break
		}
		streak++
	}
	return streak
}
