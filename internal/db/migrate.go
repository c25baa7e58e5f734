package db

import (
	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
)

// Open connects to MySQL with unique-constraint errors translated so
// duplicate emails surface as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) *gorm.DB {
	db, err := Open(dsn)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Card{},
		&domain.Transaction{},
		&domain.Payment{},
		&domain.RecurringCharge{},
		&domain.BudgetGoal{},
		&domain.RememberToken{},
	)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")
	return db
}
