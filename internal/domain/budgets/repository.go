package budgets

import "context"

type Repository interface {
	Upsert(ctx context.Context, budget *Budget) error
	List(ctx context.Context, userID, month string) ([]Budget, error)
	Delete(ctx context.Context, userID, budgetID string) (bool, error)
}
