package ledger

import "context"

// Repository is the persistence port for the three collections the
// reconciler keeps consistent. Transaction runs fn against a repository
// whose writes commit together or not at all.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]Transaction, error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*Transaction, error)
	CreateTransaction(ctx context.Context, transaction *Transaction) error
	UpdateTransaction(ctx context.Context, transaction *Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) (bool, error)
	CountTransactionsByDebtID(ctx context.Context, userID, debtID string) (int64, error)
	CountTransactionsByGoalID(ctx context.Context, userID, goalID string) (int64, error)

	ListDebts(ctx context.Context, userID string) ([]Debt, error)
	GetDebtByID(ctx context.Context, userID, debtID string) (*Debt, error)
	CreateDebt(ctx context.Context, debt *Debt) error
	UpdateDebt(ctx context.Context, debt *Debt) error
	DeleteDebt(ctx context.Context, userID, debtID string) (bool, error)

	ListGoals(ctx context.Context, userID string) ([]Goal, error)
	GetGoalByID(ctx context.Context, userID, goalID string) (*Goal, error)
	CreateGoal(ctx context.Context, goal *Goal) error
	UpdateGoal(ctx context.Context, goal *Goal) error
	DeleteGoal(ctx context.Context, userID, goalID string) (bool, error)
}
