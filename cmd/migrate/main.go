package main

import (
	"flag"

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/config" // Custom import path (Config)
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	seed := flag.Bool("seed", false, "create demo account and sample data after migrating")
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration
	conn := db.Migrate(cfg.DSN())
	if *seed {
		db.Seed(conn)
	}
}
