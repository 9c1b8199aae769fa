package budgets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance-tracker-go/internal/domain/ledger"
)

type Service struct {
	repo Repository
	feed *ledger.Feed
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		feed: ledger.NewFeed(),
		now:  time.Now,
	}
}

// Upsert saves a budget keyed by (category, month). The month defaults to
// the current one, matching how budgets are set from the dashboard.
func (s *Service) Upsert(ctx context.Context, userID string, input UpsertInput) (*Budget, error) {
	categoryName := strings.TrimSpace(input.CategoryName)
	if categoryName == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	month := strings.TrimSpace(input.Month)
	if month == "" {
		month = s.now().Format(monthLayout)
	} else if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, fmt.Errorf("month must look like %s", monthLayout)
	}

	budget := Budget{
		ID:           BudgetID(categoryName, month),
		UserID:       userID,
		CategoryName: categoryName,
		Amount:       input.Amount,
		Month:        month,
	}
	if err := s.repo.Upsert(ctx, &budget); err != nil {
		return nil, err
	}

	s.feed.Notify()
	return &budget, nil
}

// List returns the budgets for a month, or every budget when month is
// empty.
func (s *Service) List(ctx context.Context, userID, month string) ([]Budget, error) {
	return s.repo.List(ctx, userID, month)
}

func (s *Service) Delete(ctx context.Context, userID, budgetID string) error {
	deleted, err := s.repo.Delete(ctx, userID, budgetID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBudgetNotFound
	}

	s.feed.Notify()
	return nil
}

func (s *Service) Watch(ctx context.Context, userID, month string) (<-chan []Budget, func(), error) {
	return ledger.WatchSnapshots(ctx, s.feed, func(ctx context.Context) ([]Budget, error) {
		return s.repo.List(ctx, userID, month)
	})
}
