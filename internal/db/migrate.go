package db

import (
	"fmt"

	"gorm.io/gorm"

	"finance-tracker-go/internal/domain/budgets"
	"finance-tracker-go/internal/domain/categories"
	"finance-tracker-go/internal/domain/ledger"
)

// AutoMigrate creates or updates the schema for every persisted model.
// Called on startup before the HTTP server accepts traffic.
func AutoMigrate(gormDB *gorm.DB) error {
	err := gormDB.AutoMigrate(
		&ledger.Transaction{},
		&ledger.Debt{},
		&ledger.Goal{},
		&budgets.Budget{},
		&categories.Category{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
