package postgres

import (
	"context"
	"fmt"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// FactoryStore implements storage.FactoryStore using PostgreSQL.
type FactoryStore struct {
	pool *Pool
}

// NewFactoryStore creates a new FactoryStore.
func NewFactoryStore(pool *Pool) *FactoryStore {
	return &FactoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FactoryStore = (*FactoryStore)(nil)

// Get retrieves a factory aggregate. Returns ErrNotFound if absent.
func (s *FactoryStore) Get(ctx context.Context, id string) (*domain.Factory, error) {
	query := `
		SELECT id, address, chain_id, pool_count, tx_count,
			total_volume_eth::text, total_volume_usd::text, untracked_volume_usd::text,
			total_fees_eth::text, total_fees_usd::text,
			total_value_locked_eth::text, total_value_locked_usd::text, owner
		FROM factories
		WHERE id = $1
	`

	f := &domain.Factory{}
	var volETH, volUSD, untracked, feesETH, feesUSD, tvlETH, tvlUSD string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Address, &f.ChainID, &f.PoolCount, &f.TxCount,
		&volETH, &volUSD, &untracked, &feesETH, &feesUSD, &tvlETH, &tvlUSD, &f.Owner,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get factory: %w", err)
	}

	if f.TotalVolumeETH, err = parseDec(volETH); err != nil {
		return nil, err
	}
	if f.TotalVolumeUSD, err = parseDec(volUSD); err != nil {
		return nil, err
	}
	if f.UntrackedVolumeUSD, err = parseDec(untracked); err != nil {
		return nil, err
	}
	if f.TotalFeesETH, err = parseDec(feesETH); err != nil {
		return nil, err
	}
	if f.TotalFeesUSD, err = parseDec(feesUSD); err != nil {
		return nil, err
	}
	if f.TotalValueLockedETH, err = parseDec(tvlETH); err != nil {
		return nil, err
	}
	if f.TotalValueLockedUSD, err = parseDec(tvlUSD); err != nil {
		return nil, err
	}
	return f, nil
}

// Set upserts a factory aggregate.
func (s *FactoryStore) Set(ctx context.Context, f *domain.Factory) error {
	if f == nil || f.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO factories (
			id, address, chain_id, pool_count, tx_count,
			total_volume_eth, total_volume_usd, untracked_volume_usd,
			total_fees_eth, total_fees_usd,
			total_value_locked_eth, total_value_locked_usd, owner
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			pool_count = EXCLUDED.pool_count,
			tx_count = EXCLUDED.tx_count,
			total_volume_eth = EXCLUDED.total_volume_eth,
			total_volume_usd = EXCLUDED.total_volume_usd,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			total_fees_eth = EXCLUDED.total_fees_eth,
			total_fees_usd = EXCLUDED.total_fees_usd,
			total_value_locked_eth = EXCLUDED.total_value_locked_eth,
			total_value_locked_usd = EXCLUDED.total_value_locked_usd,
			owner = EXCLUDED.owner
	`

	_, err := s.pool.Exec(ctx, query,
		f.ID, f.Address, f.ChainID, f.PoolCount, f.TxCount,
		decStr(f.TotalVolumeETH), decStr(f.TotalVolumeUSD), decStr(f.UntrackedVolumeUSD),
		decStr(f.TotalFeesETH), decStr(f.TotalFeesUSD),
		decStr(f.TotalValueLockedETH), decStr(f.TotalValueLockedUSD), f.Owner,
	)
	if err != nil {
		return fmt.Errorf("set factory: %w", err)
	}
	return nil
}

// BundleStore implements storage.BundleStore using PostgreSQL.
type BundleStore struct {
	pool *Pool
}

// NewBundleStore creates a new BundleStore.
func NewBundleStore(pool *Pool) *BundleStore {
	return &BundleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BundleStore = (*BundleStore)(nil)

// Get retrieves a chain's price bundle. Returns ErrNotFound if absent.
func (s *BundleStore) Get(ctx context.Context, id string) (*domain.Bundle, error) {
	query := `SELECT id, chain_id, eth_price_usd::text FROM bundles WHERE id = $1`

	b := &domain.Bundle{}
	var price string
	err := s.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.ChainID, &price)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get bundle: %w", err)
	}
	if b.EthPriceUSD, err = parseDec(price); err != nil {
		return nil, err
	}
	return b, nil
}

// Set upserts a chain's price bundle.
func (s *BundleStore) Set(ctx context.Context, b *domain.Bundle) error {
	if b == nil || b.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO bundles (id, chain_id, eth_price_usd)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET eth_price_usd = EXCLUDED.eth_price_usd
	`
	_, err := s.pool.Exec(ctx, query, b.ID, b.ChainID, decStr(b.EthPriceUSD))
	if err != nil {
		return fmt.Errorf("set bundle: %w", err)
	}
	return nil
}
