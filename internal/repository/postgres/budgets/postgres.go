package budgets

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	budgetsdomain "finance-tracker-go/internal/domain/budgets"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert relies on the deterministic (user_id, id) key: saving the same
// category+month twice overwrites the amount instead of adding a row.
func (r *PostgresRepository) Upsert(ctx context.Context, budget *budgetsdomain.Budget) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"category_name", "amount", "month", "updated_at"}),
		}).
		Create(budget).Error
}

func (r *PostgresRepository) List(ctx context.Context, userID, month string) ([]budgetsdomain.Budget, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if month != "" {
		query = query.Where("month = ?", month)
	}

	var items []budgetsdomain.Budget
	if err := query.Order("category_name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, budgetID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&budgetsdomain.Budget{}, "user_id = ? AND id = ?", userID, budgetID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
