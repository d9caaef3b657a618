package memory

import (
	"context"
	"sync"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// PoolDayDataStore is an in-memory implementation of storage.PoolDayDataStore.
type PoolDayDataStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PoolDayData
}

// NewPoolDayDataStore creates a new in-memory pool day rollup store.
func NewPoolDayDataStore() *PoolDayDataStore {
	return &PoolDayDataStore{data: make(map[string]*domain.PoolDayData)}
}

// Get retrieves a rollup by ID. Returns ErrNotFound if not exists.
func (s *PoolDayDataStore) Get(_ context.Context, id string) (*domain.PoolDayData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// Set upserts a rollup.
func (s *PoolDayDataStore) Set(_ context.Context, d *domain.PoolDayData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.data[d.ID] = &cp
	return nil
}

var _ storage.PoolDayDataStore = (*PoolDayDataStore)(nil)

// PoolHourDataStore is an in-memory implementation of storage.PoolHourDataStore.
type PoolHourDataStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PoolHourData
}

// NewPoolHourDataStore creates a new in-memory pool hour rollup store.
func NewPoolHourDataStore() *PoolHourDataStore {
	return &PoolHourDataStore{data: make(map[string]*domain.PoolHourData)}
}

// Get retrieves a rollup by ID. Returns ErrNotFound if not exists.
func (s *PoolHourDataStore) Get(_ context.Context, id string) (*domain.PoolHourData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// Set upserts a rollup.
func (s *PoolHourDataStore) Set(_ context.Context, d *domain.PoolHourData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.data[d.ID] = &cp
	return nil
}

var _ storage.PoolHourDataStore = (*PoolHourDataStore)(nil)

// TokenDayDataStore is an in-memory implementation of storage.TokenDayDataStore.
type TokenDayDataStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TokenDayData
}

// NewTokenDayDataStore creates a new in-memory token day rollup store.
func NewTokenDayDataStore() *TokenDayDataStore {
	return &TokenDayDataStore{data: make(map[string]*domain.TokenDayData)}
}

// Get retrieves a rollup by ID. Returns ErrNotFound if not exists.
func (s *TokenDayDataStore) Get(_ context.Context, id string) (*domain.TokenDayData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// Set upserts a rollup.
func (s *TokenDayDataStore) Set(_ context.Context, d *domain.TokenDayData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.data[d.ID] = &cp
	return nil
}

var _ storage.TokenDayDataStore = (*TokenDayDataStore)(nil)

// TokenHourDataStore is an in-memory implementation of storage.TokenHourDataStore.
type TokenHourDataStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TokenHourData
}

// NewTokenHourDataStore creates a new in-memory token hour rollup store.
func NewTokenHourDataStore() *TokenHourDataStore {
	return &TokenHourDataStore{data: make(map[string]*domain.TokenHourData)}
}

// Get retrieves a rollup by ID. Returns ErrNotFound if not exists.
func (s *TokenHourDataStore) Get(_ context.Context, id string) (*domain.TokenHourData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// Set upserts a rollup.
func (s *TokenHourDataStore) Set(_ context.Context, d *domain.TokenHourData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.data[d.ID] = &cp
	return nil
}

var _ storage.TokenHourDataStore = (*TokenHourDataStore)(nil)

// ProtocolDayDataStore is an in-memory implementation of storage.ProtocolDayDataStore.
type ProtocolDayDataStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ProtocolDayData
}

// NewProtocolDayDataStore creates a new in-memory protocol day rollup store.
func NewProtocolDayDataStore() *ProtocolDayDataStore {
	return &ProtocolDayDataStore{data: make(map[string]*domain.ProtocolDayData)}
}

// Get retrieves a rollup by ID. Returns ErrNotFound if not exists.
func (s *ProtocolDayDataStore) Get(_ context.Context, id string) (*domain.ProtocolDayData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// Set upserts a rollup.
func (s *ProtocolDayDataStore) Set(_ context.Context, d *domain.ProtocolDayData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.data[d.ID] = &cp
	return nil
}

var _ storage.ProtocolDayDataStore = (*ProtocolDayDataStore)(nil)

// NewStores wires a complete in-memory store set, suitable for tests
// and for the replay command.
func NewStores() *storage.Stores {
	return &storage.Stores{
		Factories:    NewFactoryStore(),
		Bundles:      NewBundleStore(),
		Tokens:       NewTokenStore(),
		Pools:        NewPoolStore(),
		Ticks:        NewTickStore(),
		Transactions: NewTransactionStore(),

		Swaps:    NewSwapRecordStore(),
		Mints:    NewMintRecordStore(),
		Burns:    NewBurnRecordStore(),
		Collects: NewCollectRecordStore(),

		PoolDayData:     NewPoolDayDataStore(),
		PoolHourData:    NewPoolHourDataStore(),
		TokenDayData:    NewTokenDayDataStore(),
		TokenHourData:   NewTokenHourDataStore(),
		ProtocolDayData: NewProtocolDayDataStore(),
	}
}
