package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, userID string, filter ledgerdomain.ListFilter) ([]ledgerdomain.Transaction, error) {
	query := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("user_id = ?", userID)
	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", *filter.To)
	}
	if !filter.IncludeRecurring {
		query = query.Where("is_recurring = ?", false)
	}

	var items []ledgerdomain.Transaction
	if err := query.Order("timestamp desc, created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetTransactionByID(ctx context.Context, userID, transactionID string) (*ledgerdomain.Transaction, error) {
	var transaction ledgerdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, transactionID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, transaction *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("id = ? AND user_id = ?", transaction.ID, transaction.UserID).
		Updates(map[string]interface{}{
			"kind":         transaction.Kind,
			"description":  transaction.Description,
			"amount":       transaction.Amount,
			"timestamp":    transaction.Timestamp,
			"category":     transaction.Category,
			"source":       transaction.Source,
			"is_recurring": transaction.IsRecurring,
			"updated_at":   transaction.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&ledgerdomain.Transaction{}, "user_id = ? AND id = ?", userID, transactionID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) CountTransactionsByDebtID(ctx context.Context, userID, debtID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("user_id = ? AND linked_debt_id = ?", userID, debtID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountTransactionsByGoalID(ctx context.Context, userID, goalID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("user_id = ? AND linked_goal_id = ?", userID, goalID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) ListDebts(ctx context.Context, userID string) ([]ledgerdomain.Debt, error) {
	var items []ledgerdomain.Debt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetDebtByID(ctx context.Context, userID, debtID string) (*ledgerdomain.Debt, error) {
	var debt ledgerdomain.Debt
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, debtID).
		First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrDebtNotFound
		}
		return nil, err
	}
	return &debt, nil
}

func (r *PostgresRepository) CreateDebt(ctx context.Context, debt *ledgerdomain.Debt) error {
	return r.db.WithContext(ctx).Create(debt).Error
}

func (r *PostgresRepository) UpdateDebt(ctx context.Context, debt *ledgerdomain.Debt) error {
	return r.db.WithContext(ctx).
		Model(&ledgerdomain.Debt{}).
		Where("id = ? AND user_id = ?", debt.ID, debt.UserID).
		Updates(map[string]interface{}{
			"paid_amount": debt.PaidAmount,
			"status":      debt.Status,
		}).Error
}

func (r *PostgresRepository) DeleteDebt(ctx context.Context, userID, debtID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&ledgerdomain.Debt{}, "user_id = ? AND id = ?", userID, debtID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListGoals(ctx context.Context, userID string) ([]ledgerdomain.Goal, error) {
	var items []ledgerdomain.Goal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetGoalByID(ctx context.Context, userID, goalID string) (*ledgerdomain.Goal, error) {
	var goal ledgerdomain.Goal
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, goalID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) CreateGoal(ctx context.Context, goal *ledgerdomain.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *PostgresRepository) UpdateGoal(ctx context.Context, goal *ledgerdomain.Goal) error {
	return r.db.WithContext(ctx).
		Model(&ledgerdomain.Goal{}).
		Where("id = ? AND user_id = ?", goal.ID, goal.UserID).
		Updates(map[string]interface{}{
			"current_amount": goal.CurrentAmount,
		}).Error
}

func (r *PostgresRepository) DeleteGoal(ctx context.Context, userID, goalID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&ledgerdomain.Goal{}, "user_id = ? AND id = ?", userID, goalID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
