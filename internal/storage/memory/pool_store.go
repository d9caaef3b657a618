package memory

import (
	"context"
	"sync"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// PoolStore is an in-memory implementation of storage.PoolStore.
type PoolStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Pool
}

// NewPoolStore creates a new in-memory pool store.
func NewPoolStore() *PoolStore {
	return &PoolStore{data: make(map[string]*domain.Pool)}
}

func copyPool(p *domain.Pool) *domain.Pool {
	cp := *p
	if p.Tick != nil {
		tick := *p.Tick
		cp.Tick = &tick
	}
	return &cp
}

// Get retrieves a pool by ID. Returns ErrNotFound if not exists.
func (s *PoolStore) Get(_ context.Context, id string) (*domain.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyPool(p), nil
}

// Set upserts a pool.
func (s *PoolStore) Set(_ context.Context, p *domain.Pool) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[p.ID] = copyPool(p)
	return nil
}

var _ storage.PoolStore = (*PoolStore)(nil)
