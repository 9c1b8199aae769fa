package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
)

// LedgerStore keeps the three reconciled collections in process memory.
// Transaction clones the maps, runs fn against the clone and swaps it in
// only on success, so a failing multi-entity write leaves nothing behind.
type LedgerStore struct {
	mu           sync.RWMutex
	transactions map[string]ledgerdomain.Transaction
	debts        map[string]ledgerdomain.Debt
	goals        map[string]ledgerdomain.Goal
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		transactions: make(map[string]ledgerdomain.Transaction),
		debts:        make(map[string]ledgerdomain.Debt),
		goals:        make(map[string]ledgerdomain.Goal),
	}
}

func (s *LedgerStore) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &LedgerStore{
		transactions: cloneMap(s.transactions),
		debts:        cloneMap(s.debts),
		goals:        cloneMap(s.goals),
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.transactions = tx.transactions
	s.debts = tx.debts
	s.goals = tx.goals
	return nil
}

func (s *LedgerStore) ListTransactions(ctx context.Context, userID string, filter ledgerdomain.ListFilter) ([]ledgerdomain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ledgerdomain.Transaction, 0)
	for _, transaction := range s.transactions {
		if transaction.UserID != userID {
			continue
		}
		if filter.From != nil && transaction.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && transaction.Timestamp.After(*filter.To) {
			continue
		}
		if !filter.IncludeRecurring && transaction.IsRecurring {
			continue
		}
		items = append(items, transaction)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.After(items[j].Timestamp)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *LedgerStore) GetTransactionByID(ctx context.Context, userID, transactionID string) (*ledgerdomain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transaction, ok := s.transactions[transactionID]
	if !ok || transaction.UserID != userID {
		return nil, ledgerdomain.ErrTransactionNotFound
	}
	return &transaction, nil
}

func (s *LedgerStore) CreateTransaction(ctx context.Context, transaction *ledgerdomain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now().UTC()
	}
	s.transactions[transaction.ID] = *transaction
	return nil
}

func (s *LedgerStore) UpdateTransaction(ctx context.Context, transaction *ledgerdomain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return ledgerdomain.ErrTransactionNotFound
	}
	s.transactions[transaction.ID] = *transaction
	return nil
}

func (s *LedgerStore) DeleteTransaction(ctx context.Context, userID, transactionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, ok := s.transactions[transactionID]
	if !ok || transaction.UserID != userID {
		return false, nil
	}
	delete(s.transactions, transactionID)
	return true, nil
}

func (s *LedgerStore) CountTransactionsByDebtID(ctx context.Context, userID, debtID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, transaction := range s.transactions {
		if transaction.UserID == userID && transaction.LinkedDebtID != nil && *transaction.LinkedDebtID == debtID {
			count++
		}
	}
	return count, nil
}

func (s *LedgerStore) CountTransactionsByGoalID(ctx context.Context, userID, goalID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, transaction := range s.transactions {
		if transaction.UserID == userID && transaction.LinkedGoalID != nil && *transaction.LinkedGoalID == goalID {
			count++
		}
	}
	return count, nil
}

func (s *LedgerStore) ListDebts(ctx context.Context, userID string) ([]ledgerdomain.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ledgerdomain.Debt, 0)
	for _, debt := range s.debts {
		if debt.UserID == userID {
			items = append(items, debt)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *LedgerStore) GetDebtByID(ctx context.Context, userID, debtID string) (*ledgerdomain.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debt, ok := s.debts[debtID]
	if !ok || debt.UserID != userID {
		return nil, ledgerdomain.ErrDebtNotFound
	}
	return &debt, nil
}

func (s *LedgerStore) CreateDebt(ctx context.Context, debt *ledgerdomain.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = time.Now().UTC()
	}
	s.debts[debt.ID] = *debt
	return nil
}

func (s *LedgerStore) UpdateDebt(ctx context.Context, debt *ledgerdomain.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.debts[debt.ID]
	if !ok || existing.UserID != debt.UserID {
		return ledgerdomain.ErrDebtNotFound
	}
	s.debts[debt.ID] = *debt
	return nil
}

func (s *LedgerStore) DeleteDebt(ctx context.Context, userID, debtID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	debt, ok := s.debts[debtID]
	if !ok || debt.UserID != userID {
		return false, nil
	}
	delete(s.debts, debtID)
	return true, nil
}

func (s *LedgerStore) ListGoals(ctx context.Context, userID string) ([]ledgerdomain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ledgerdomain.Goal, 0)
	for _, goal := range s.goals {
		if goal.UserID == userID {
			items = append(items, goal)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *LedgerStore) GetGoalByID(ctx context.Context, userID, goalID string) (*ledgerdomain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, ledgerdomain.ErrGoalNotFound
	}
	return &goal, nil
}

func (s *LedgerStore) CreateGoal(ctx context.Context, goal *ledgerdomain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now().UTC()
	}
	s.goals[goal.ID] = *goal
	return nil
}

func (s *LedgerStore) UpdateGoal(ctx context.Context, goal *ledgerdomain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return ledgerdomain.ErrGoalNotFound
	}
	s.goals[goal.ID] = *goal
	return nil
}

func (s *LedgerStore) DeleteGoal(ctx context.Context, userID, goalID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != userID {
		return false, nil
	}
	delete(s.goals, goalID)
	return true, nil
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
