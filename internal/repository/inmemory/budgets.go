package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	budgetsdomain "finance-tracker-go/internal/domain/budgets"
)

type BudgetStore struct {
	mu    sync.RWMutex
	items map[budgetKey]budgetsdomain.Budget
}

type budgetKey struct {
	userID   string
	budgetID string
}

func NewBudgetStore() *BudgetStore {
	return &BudgetStore{items: make(map[budgetKey]budgetsdomain.Budget)}
}

func (s *BudgetStore) Upsert(ctx context.Context, budget *budgetsdomain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := budgetKey{userID: budget.UserID, budgetID: budget.ID}
	if existing, ok := s.items[key]; ok {
		budget.CreatedAt = existing.CreatedAt
	} else if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now().UTC()
	}
	budget.UpdatedAt = time.Now().UTC()
	s.items[key] = *budget
	return nil
}

func (s *BudgetStore) List(ctx context.Context, userID, month string) ([]budgetsdomain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]budgetsdomain.Budget, 0)
	for _, budget := range s.items {
		if budget.UserID != userID {
			continue
		}
		if month != "" && budget.Month != month {
			continue
		}
		items = append(items, budget)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CategoryName < items[j].CategoryName
	})
	return items, nil
}

func (s *BudgetStore) Delete(ctx context.Context, userID, budgetID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := budgetKey{userID: userID, budgetID: budgetID}
	if _, ok := s.items[key]; !ok {
		return false, nil
	}
	delete(s.items, key)
	return true, nil
}
