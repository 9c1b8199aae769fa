package categories

import (
	"context"

	"gorm.io/gorm"

	categoriesdomain "finance-tracker-go/internal/domain/categories"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string, kind categoriesdomain.Kind) ([]categoriesdomain.Category, error) {
	var items []categoriesdomain.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Create(ctx context.Context, category *categoriesdomain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *PostgresRepository) CountByName(ctx context.Context, userID string, kind categoriesdomain.Kind, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&categoriesdomain.Category{}).
		Where("user_id = ? AND kind = ? AND lower(name) = lower(?)", userID, kind, name).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&categoriesdomain.Category{}, "user_id = ? AND id = ?", userID, categoryID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
