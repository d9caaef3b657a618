package memory

import (
	"context"
	"sync"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Token
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{data: make(map[string]*domain.Token)}
}

// copyToken clones a token including its adjacency slice, so callers can
// append to WhitelistPools without aliasing the stored record.
func copyToken(t *domain.Token) *domain.Token {
	cp := *t
	if t.WhitelistPools != nil {
		cp.WhitelistPools = make([]string, len(t.WhitelistPools))
		copy(cp.WhitelistPools, t.WhitelistPools)
	}
	return &cp
}

// Get retrieves a token by ID. Returns ErrNotFound if not exists.
func (s *TokenStore) Get(_ context.Context, id string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyToken(t), nil
}

// Set upserts a token.
func (s *TokenStore) Set(_ context.Context, t *domain.Token) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[t.ID] = copyToken(t)
	return nil
}

var _ storage.TokenStore = (*TokenStore)(nil)
