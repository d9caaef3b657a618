package storage

import (
	"context"

	"univ3-pool-lab/internal/domain"
)

// Entity stores are keyed get/set with read-after-write consistency
// within one event's processing. Get returns ErrNotFound when the key
// has never been written; Set upserts.

// FactoryStore provides access to per-chain Factory aggregates.
type FactoryStore interface {
	Get(ctx context.Context, id string) (*domain.Factory, error)
	Set(ctx context.Context, f *domain.Factory) error
}

// BundleStore provides access to per-chain native price bundles.
type BundleStore interface {
	Get(ctx context.Context, id string) (*domain.Bundle, error)
	Set(ctx context.Context, b *domain.Bundle) error
}

// TokenStore provides access to Token records.
type TokenStore interface {
	Get(ctx context.Context, id string) (*domain.Token, error)
	Set(ctx context.Context, t *domain.Token) error
}

// PoolStore provides access to Pool records.
type PoolStore interface {
	Get(ctx context.Context, id string) (*domain.Pool, error)
	Set(ctx context.Context, p *domain.Pool) error
}

// TickStore provides access to Tick records.
type TickStore interface {
	Get(ctx context.Context, id string) (*domain.Tick, error)
	Set(ctx context.Context, t *domain.Tick) error

	// GetByPool retrieves all tick records of a pool ordered by tick index.
	GetByPool(ctx context.Context, poolID string) ([]*domain.Tick, error)
}

// TransactionStore provides access to Transaction records.
type TransactionStore interface {
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	Set(ctx context.Context, t *domain.Transaction) error
}

// Event record stores are append-only: one immutable record per
// on-chain log. Insert returns ErrDuplicateKey on re-insertion.

// SwapRecordStore provides access to immutable swap records.
type SwapRecordStore interface {
	Insert(ctx context.Context, r *domain.SwapRecord) error
	GetByPool(ctx context.Context, poolID string) ([]*domain.SwapRecord, error)
}

// MintRecordStore provides access to immutable mint records.
type MintRecordStore interface {
	Insert(ctx context.Context, r *domain.MintRecord) error
	GetByPool(ctx context.Context, poolID string) ([]*domain.MintRecord, error)
}

// BurnRecordStore provides access to immutable burn records.
type BurnRecordStore interface {
	Insert(ctx context.Context, r *domain.BurnRecord) error
	GetByPool(ctx context.Context, poolID string) ([]*domain.BurnRecord, error)
}

// CollectRecordStore provides access to immutable collect records.
type CollectRecordStore interface {
	Insert(ctx context.Context, r *domain.CollectRecord) error
	GetByPool(ctx context.Context, poolID string) ([]*domain.CollectRecord, error)
}

// Time-bucketed rollup stores, keyed by (subject, bucket index, chain).

// PoolDayDataStore provides access to daily pool rollups.
type PoolDayDataStore interface {
	Get(ctx context.Context, id string) (*domain.PoolDayData, error)
	Set(ctx context.Context, d *domain.PoolDayData) error
}

// PoolHourDataStore provides access to hourly pool rollups.
type PoolHourDataStore interface {
	Get(ctx context.Context, id string) (*domain.PoolHourData, error)
	Set(ctx context.Context, d *domain.PoolHourData) error
}

// TokenDayDataStore provides access to daily token rollups.
type TokenDayDataStore interface {
	Get(ctx context.Context, id string) (*domain.TokenDayData, error)
	Set(ctx context.Context, d *domain.TokenDayData) error
}

// TokenHourDataStore provides access to hourly token rollups.
type TokenHourDataStore interface {
	Get(ctx context.Context, id string) (*domain.TokenHourData, error)
	Set(ctx context.Context, d *domain.TokenHourData) error
}

// ProtocolDayDataStore provides access to protocol-wide daily rollups.
type ProtocolDayDataStore interface {
	Get(ctx context.Context, id string) (*domain.ProtocolDayData, error)
	Set(ctx context.Context, d *domain.ProtocolDayData) error
}

// Stores bundles every store the engine needs.
type Stores struct {
	Factories    FactoryStore
	Bundles      BundleStore
	Tokens       TokenStore
	Pools        PoolStore
	Ticks        TickStore
	Transactions TransactionStore

	Swaps    SwapRecordStore
	Mints    MintRecordStore
	Burns    BurnRecordStore
	Collects CollectRecordStore

	PoolDayData     PoolDayDataStore
	PoolHourData    PoolHourDataStore
	TokenDayData    TokenDayDataStore
	TokenHourData   TokenHourDataStore
	ProtocolDayData ProtocolDayDataStore
}
