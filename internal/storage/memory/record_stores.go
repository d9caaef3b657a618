package memory

import (
	"context"
	"sort"
	"sync"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// SwapRecordStore is an in-memory implementation of storage.SwapRecordStore.
type SwapRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SwapRecord
}

// NewSwapRecordStore creates a new in-memory swap record store.
func NewSwapRecordStore() *SwapRecordStore {
	return &SwapRecordStore{data: make(map[string]*domain.SwapRecord)}
}

// Insert appends a swap record. Returns ErrDuplicateKey on re-insertion.
func (s *SwapRecordStore) Insert(_ context.Context, r *domain.SwapRecord) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *r
	s.data[r.ID] = &cp
	return nil
}

// GetByPool retrieves swap records of a pool ordered by timestamp then log index.
func (s *SwapRecordStore) GetByPool(_ context.Context, poolID string) ([]*domain.SwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapRecord
	for _, r := range s.data {
		if r.PoolID == poolID {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].LogIndex < result[j].LogIndex
	})
	return result, nil
}

var _ storage.SwapRecordStore = (*SwapRecordStore)(nil)

// MintRecordStore is an in-memory implementation of storage.MintRecordStore.
type MintRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MintRecord
}

// NewMintRecordStore creates a new in-memory mint record store.
func NewMintRecordStore() *MintRecordStore {
	return &MintRecordStore{data: make(map[string]*domain.MintRecord)}
}

// Insert appends a mint record. Returns ErrDuplicateKey on re-insertion.
func (s *MintRecordStore) Insert(_ context.Context, r *domain.MintRecord) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *r
	s.data[r.ID] = &cp
	return nil
}

// GetByPool retrieves mint records of a pool ordered by timestamp then log index.
func (s *MintRecordStore) GetByPool(_ context.Context, poolID string) ([]*domain.MintRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MintRecord
	for _, r := range s.data {
		if r.PoolID == poolID {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].LogIndex < result[j].LogIndex
	})
	return result, nil
}

var _ storage.MintRecordStore = (*MintRecordStore)(nil)

// BurnRecordStore is an in-memory implementation of storage.BurnRecordStore.
type BurnRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BurnRecord
}

// NewBurnRecordStore creates a new in-memory burn record store.
func NewBurnRecordStore() *BurnRecordStore {
	return &BurnRecordStore{data: make(map[string]*domain.BurnRecord)}
}

// Insert appends a burn record. Returns ErrDuplicateKey on re-insertion.
func (s *BurnRecordStore) Insert(_ context.Context, r *domain.BurnRecord) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *r
	s.data[r.ID] = &cp
	return nil
}

// GetByPool retrieves burn records of a pool ordered by timestamp then log index.
func (s *BurnRecordStore) GetByPool(_ context.Context, poolID string) ([]*domain.BurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BurnRecord
	for _, r := range s.data {
		if r.PoolID == poolID {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].LogIndex < result[j].LogIndex
	})
	return result, nil
}

var _ storage.BurnRecordStore = (*BurnRecordStore)(nil)

// CollectRecordStore is an in-memory implementation of storage.CollectRecordStore.
type CollectRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CollectRecord
}

// NewCollectRecordStore creates a new in-memory collect record store.
func NewCollectRecordStore() *CollectRecordStore {
	return &CollectRecordStore{data: make(map[string]*domain.CollectRecord)}
}

// Insert appends a collect record. Returns ErrDuplicateKey on re-insertion.
func (s *CollectRecordStore) Insert(_ context.Context, r *domain.CollectRecord) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ID]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *r
	s.data[r.ID] = &cp
	return nil
}

// GetByPool retrieves collect records of a pool ordered by timestamp then log index.
func (s *CollectRecordStore) GetByPool(_ context.Context, poolID string) ([]*domain.CollectRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CollectRecord
	for _, r := range s.data {
		if r.PoolID == poolID {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].LogIndex < result[j].LogIndex
	})
	return result, nil
}

var _ storage.CollectRecordStore = (*CollectRecordStore)(nil)
