package categories

import "context"

type Repository interface {
	List(ctx context.Context, userID string, kind Kind) ([]Category, error)
	Create(ctx context.Context, category *Category) error
	CountByName(ctx context.Context, userID string, kind Kind, name string) (int64, error)
	Delete(ctx context.Context, userID, categoryID string) (bool, error)
}
