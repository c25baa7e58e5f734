package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/analytics"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/auth"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
)

// DemoEmail is the account Seed creates for local evaluation.
const DemoEmail = "demo@example.com"

// Seed creates a demo account with cards, ledger history, recurring
// charges and budgets. Running it twice is a no-op.
func Seed(db *gorm.DB) {
	var existing domain.User
	if err := db.Where("email = ?", DemoEmail).First(&existing).Error; err == nil {
		logrus.Info("Demo data already exists")
		return
	}

	hash, err := auth.HashPassword("Demo123!")
	if err != nil {
		logrus.Fatalf("failed to hash demo password: %v", err)
	}
	user := domain.User{Email: DemoEmail, PasswordHash: hash, Name: "Demo User"}
	if err := db.Create(&user).Error; err != nil {
		logrus.Fatalf("failed to create demo user: %v", err)
	}

	cards := []domain.Card{
		{ID: "card_demo_1", UserID: user.ID, HolderName: "My Personal Visa", LastFour: "4532", Expiry: "12/26", Balance: 2450.00, Currency: "USD", Brand: "visa", IsDefault: true},
		{ID: "card_demo_2", UserID: user.ID, HolderName: "Business Mastercard", LastFour: "8721", Expiry: "08/25", Balance: 5200.50, Currency: "USD", Brand: "mastercard"},
		{ID: "card_demo_3", UserID: user.ID, HolderName: "Travel Rewards Card", LastFour: "3344", Expiry: "03/27", Balance: 1875.25, Currency: "USD", Brand: "amex"},
	}
	if err := db.Create(&cards).Error; err != nil {
		logrus.Fatalf("failed to create demo cards: %v", err)
	}

	now := time.Now()
	cardID := "card_demo_1"
	seedTxs := []struct {
		title   string
		amount  float64
		txType  string
		icon    string
		daysAgo int
	}{
		{"Amazon Purchase", -89.99, "shopping", "shopping-bag", 0},
		{"Starbucks Coffee", -5.45, "food", "coffee", 1},
		{"Netflix Subscription", -15.99, "subscription", "tv", 2},
		{"Uber Ride", -24.50, "transport", "car", 3},
		{"Grocery Store", -156.78, "food", "shopping-cart", 4},
		{"Payment Received", 500.00, "salary", "dollar-sign", 5},
		{"Restaurant Dinner", -65.00, "food", "utensils", 6},
		{"Gas Station", -45.00, "transport", "fuel", 7},
		{"Spotify Premium", -9.99, "subscription", "music", 8},
		{"Online Shopping", -120.00, "shopping", "package", 10},
	}
	for _, tx := range seedTxs {
		row := domain.Transaction{
			UserID: user.ID, CardID: &cardID, Title: tx.title,
			Date:   analytics.Day(now.AddDate(0, 0, -tx.daysAgo)),
			Amount: tx.amount, Type: tx.txType, Icon: tx.icon,
		}
		if err := db.Create(&row).Error; err != nil {
			logrus.Fatalf("failed to create demo transaction: %v", err)
		}
	}

	due := analytics.Day(now.AddDate(0, 0, 15))
	recurring := []domain.RecurringCharge{
		{UserID: user.ID, Title: "Netflix", Amount: 15.99, Type: "subscription", Frequency: "monthly", NextDueDate: due, Icon: "tv", Active: true},
		{UserID: user.ID, Title: "Gym Membership", Amount: 49.99, Type: "subscription", Frequency: "monthly", NextDueDate: due, Icon: "dumbbell", Active: true},
		{UserID: user.ID, Title: "Salary", Amount: 5000.00, Type: "salary", Frequency: "monthly", NextDueDate: due, Icon: "briefcase", Active: true},
	}
	if err := db.Create(&recurring).Error; err != nil {
		logrus.Fatalf("failed to create demo recurring charges: %v", err)
	}

	budgets := []domain.BudgetGoal{
		{UserID: user.ID, Category: "food", AmountLimit: 500, Period: "monthly"},
		{UserID: user.ID, Category: "shopping", AmountLimit: 300, Period: "monthly"},
		{UserID: user.ID, Category: "transport", AmountLimit: 200, Period: "monthly"},
		{UserID: user.ID, Category: "subscription", AmountLimit: 100, Period: "monthly"},
	}
	if err := db.Create(&budgets).Error; err != nil {
		logrus.Fatalf("failed to create demo budgets: %v", err)
	}

	logrus.WithField("email", DemoEmail).Info("Demo data created")
}
