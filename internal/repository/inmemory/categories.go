package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"

	categoriesdomain "finance-tracker-go/internal/domain/categories"
)

type CategoryStore struct {
	mu    sync.RWMutex
	items map[string]categoriesdomain.Category
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{items: make(map[string]categoriesdomain.Category)}
}

func (s *CategoryStore) List(ctx context.Context, userID string, kind categoriesdomain.Kind) ([]categoriesdomain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]categoriesdomain.Category, 0)
	for _, category := range s.items {
		if category.UserID == userID && category.Kind == kind {
			items = append(items, category)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *CategoryStore) Create(ctx context.Context, category *categoriesdomain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[category.ID] = *category
	return nil
}

func (s *CategoryStore) CountByName(ctx context.Context, userID string, kind categoriesdomain.Kind, name string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, category := range s.items {
		if category.UserID == userID && category.Kind == kind && strings.EqualFold(category.Name, name) {
			count++
		}
	}
	return count, nil
}

func (s *CategoryStore) Delete(ctx context.Context, userID, categoryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.items[categoryID]
	if !ok || category.UserID != userID {
		return false, nil
	}
	delete(s.items, categoryID)
	return true, nil
}
