package memory

import (
	"context"
	"sync"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// FactoryStore is an in-memory implementation of storage.FactoryStore.
type FactoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Factory
}

// NewFactoryStore creates a new in-memory factory store.
func NewFactoryStore() *FactoryStore {
	return &FactoryStore{data: make(map[string]*domain.Factory)}
}

// Get retrieves a factory by ID. Returns ErrNotFound if not exists.
func (s *FactoryStore) Get(_ context.Context, id string) (*domain.Factory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

// Set upserts a factory.
func (s *FactoryStore) Set(_ context.Context, f *domain.Factory) error {
	if f == nil || f.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *f
	s.data[f.ID] = &cp
	return nil
}

var _ storage.FactoryStore = (*FactoryStore)(nil)

// BundleStore is an in-memory implementation of storage.BundleStore.
type BundleStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Bundle
}

// NewBundleStore creates a new in-memory bundle store.
func NewBundleStore() *BundleStore {
	return &BundleStore{data: make(map[string]*domain.Bundle)}
}

// Get retrieves a bundle by ID. Returns ErrNotFound if not exists.
func (s *BundleStore) Get(_ context.Context, id string) (*domain.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// Set upserts a bundle.
func (s *BundleStore) Set(_ context.Context, b *domain.Bundle) error {
	if b == nil || b.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	s.data[b.ID] = &cp
	return nil
}

var _ storage.BundleStore = (*BundleStore)(nil)
