package postgres

import (
	"context"
	"fmt"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL. The
// whitelist adjacency list rides along as a text array.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Get retrieves a token. Returns ErrNotFound if absent.
func (s *TokenStore) Get(ctx context.Context, id string) (*domain.Token, error) {
	query := `
		SELECT id, address, chain_id, symbol, name, decimals, total_supply::text,
			derived_eth::text, volume::text, volume_usd::text, untracked_volume_usd::text,
			fees_usd::text, total_value_locked::text, total_value_locked_usd::text,
			tx_count, pool_count, whitelist_pools
		FROM tokens
		WHERE id = $1
	`

	t := &domain.Token{}
	var supply, derived, volume, volumeUSD, untracked, fees, tvl, tvlUSD string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Address, &t.ChainID, &t.Symbol, &t.Name, &t.Decimals, &supply,
		&derived, &volume, &volumeUSD, &untracked, &fees, &tvl, &tvlUSD,
		&t.TxCount, &t.PoolCount, &t.WhitelistPools,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token: %w", err)
	}

	if t.TotalSupply, err = parseBig(supply); err != nil {
		return nil, err
	}
	if t.DerivedETH, err = parseDec(derived); err != nil {
		return nil, err
	}
	if t.Volume, err = parseDec(volume); err != nil {
		return nil, err
	}
	if t.VolumeUSD, err = parseDec(volumeUSD); err != nil {
		return nil, err
	}
	if t.UntrackedVolumeUSD, err = parseDec(untracked); err != nil {
		return nil, err
	}
	if t.FeesUSD, err = parseDec(fees); err != nil {
		return nil, err
	}
	if t.TotalValueLocked, err = parseDec(tvl); err != nil {
		return nil, err
	}
	if t.TotalValueLockedUSD, err = parseDec(tvlUSD); err != nil {
		return nil, err
	}
	return t, nil
}

// Set upserts a token.
func (s *TokenStore) Set(ctx context.Context, t *domain.Token) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO tokens (
			id, address, chain_id, symbol, name, decimals, total_supply,
			derived_eth, volume, volume_usd, untracked_volume_usd,
			fees_usd, total_value_locked, total_value_locked_usd,
			tx_count, pool_count, whitelist_pools
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			decimals = EXCLUDED.decimals,
			total_supply = EXCLUDED.total_supply,
			derived_eth = EXCLUDED.derived_eth,
			volume = EXCLUDED.volume,
			volume_usd = EXCLUDED.volume_usd,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			fees_usd = EXCLUDED.fees_usd,
			total_value_locked = EXCLUDED.total_value_locked,
			total_value_locked_usd = EXCLUDED.total_value_locked_usd,
			tx_count = EXCLUDED.tx_count,
			pool_count = EXCLUDED.pool_count,
			whitelist_pools = EXCLUDED.whitelist_pools
	`

	whitelist := t.WhitelistPools
	if whitelist == nil {
		whitelist = []string{}
	}

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.Address, t.ChainID, t.Symbol, t.Name, t.Decimals, bigStr(t.TotalSupply),
		decStr(t.DerivedETH), decStr(t.Volume), decStr(t.VolumeUSD), decStr(t.UntrackedVolumeUSD),
		decStr(t.FeesUSD), decStr(t.TotalValueLocked), decStr(t.TotalValueLockedUSD),
		t.TxCount, t.PoolCount, whitelist,
	)
	if err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}
