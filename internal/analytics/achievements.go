package analytics

import (
	"time"

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
)

// Streak policy shared by SavingsStreak callers and achievements.
const (
	StreakThresholdPerDay = 50.0
	StreakLookbackDays    = 30
)

// Achievement is a badge derived from the ledger and card balance.
type Achievement struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Earned bool   `json:"earned"`
}

// Achievements evaluates the badge set against the ledger and the
// default card's balance.
func Achievements(txs []domain.Transaction, balance float64, now time.Time) []Achievement {
	monthSpending := MonthSpending(txs, now)
	streak := SavingsStreak(txs, now, StreakThresholdPerDay, StreakLookbackDays)

	return []Achievement{
		{ID: "budget_master", Name: "Budget Master", Icon: "target", Earned: monthSpending < 500},
		{ID: "saver", Name: "Smart Saver", Icon: "piggy-bank", Earned: balance > 1000},
		{ID: "streak", Name: "Streak Champ", Icon: "flame", Earned: streak >= 7},
		{ID: "first", Name: "First Steps", Icon: "footprints", Earned: len(txs) > 0},
	}
}
