package categories

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"finance-tracker-go/internal/domain/ledger"
)

type Service struct {
	repo Repository
	feed *ledger.Feed
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		feed: ledger.NewFeed(),
	}
}

func (s *Service) List(ctx context.Context, userID string, kind Kind) ([]Category, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID, kind)
}

func (s *Service) Create(ctx context.Context, userID string, kind Kind, name string) (*Category, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	count, err := s.repo.CountByName(ctx, userID, kind, name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameTaken
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	category := Category{
		ID:     id,
		UserID: userID,
		Kind:   kind,
		Name:   name,
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}

	s.feed.Notify()
	return &category, nil
}

// Delete removes a pick-list entry. No dependent-entity check: transactions
// keep the copied name.
func (s *Service) Delete(ctx context.Context, userID, categoryID string) error {
	deleted, err := s.repo.Delete(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}

	s.feed.Notify()
	return nil
}

func (s *Service) Watch(ctx context.Context, userID string, kind Kind) (<-chan []Category, func(), error) {
	if err := validateKind(kind); err != nil {
		return nil, nil, err
	}
	return ledger.WatchSnapshots(ctx, s.feed, func(ctx context.Context) ([]Category, error) {
		return s.repo.List(ctx, userID, kind)
	})
}

func validateKind(kind Kind) error {
	if kind != KindExpense && kind != KindIncome {
		return fmt.Errorf("kind must be expense or income")
	}
	return nil
}

func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}

	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
