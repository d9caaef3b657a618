package memory

import (
	"context"
	"sort"
	"sync"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// TickStore is an in-memory implementation of storage.TickStore.
type TickStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Tick
}

// NewTickStore creates a new in-memory tick store.
func NewTickStore() *TickStore {
	return &TickStore{data: make(map[string]*domain.Tick)}
}

// Get retrieves a tick by ID. Returns ErrNotFound if not exists.
func (s *TickStore) Get(_ context.Context, id string) (*domain.Tick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Set upserts a tick.
func (s *TickStore) Set(_ context.Context, t *domain.Tick) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.data[t.ID] = &cp
	return nil
}

// GetByPool retrieves all tick records of a pool ordered by tick index.
func (s *TickStore) GetByPool(_ context.Context, poolID string) ([]*domain.Tick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Tick
	for _, t := range s.data {
		if t.PoolID == poolID {
			cp := *t
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TickIdx < result[j].TickIdx
	})

	return result, nil
}

var _ storage.TickStore = (*TickStore)(nil)
