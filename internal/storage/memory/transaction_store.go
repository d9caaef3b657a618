package memory

import (
	"context"
	"sync"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{data: make(map[string]*domain.Transaction)}
}

// Get retrieves a transaction by ID. Returns ErrNotFound if not exists.
func (s *TransactionStore) Get(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Set upserts a transaction. Upserts are idempotent by design: every
// event in a transaction re-writes the same fields.
func (s *TransactionStore) Set(_ context.Context, t *domain.Transaction) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.data[t.ID] = &cp
	return nil
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
