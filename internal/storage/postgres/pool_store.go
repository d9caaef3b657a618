package postgres

import (
	"context"
	"fmt"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// PoolStore implements storage.PoolStore using PostgreSQL. The tick
// column stays NULL until the pool's Initialize event.
type PoolStore struct {
	pool *Pool
}

// NewPoolStore creates a new PoolStore.
func NewPoolStore(pool *Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// Get retrieves a pool. Returns ErrNotFound if absent.
func (s *PoolStore) Get(ctx context.Context, id string) (*domain.Pool, error) {
	query := `
		SELECT id, address, chain_id, token0_id, token1_id, fee_tier,
			created_at_timestamp, created_at_block_number,
			liquidity::text, sqrt_price::text, tick,
			token0_price::text, token1_price::text,
			volume_token0::text, volume_token1::text, volume_usd::text,
			untracked_volume_usd::text, fees_usd::text, tx_count,
			collected_fees_token0::text, collected_fees_token1::text, collected_fees_usd::text,
			total_value_locked_token0::text, total_value_locked_token1::text,
			total_value_locked_eth::text, total_value_locked_usd::text,
			fee_growth_global0_x128::text, fee_growth_global1_x128::text
		FROM pools
		WHERE id = $1
	`

	p := &domain.Pool{}
	var liquidity, sqrtPrice string
	var price0, price1, vol0, vol1, volUSD, untracked, fees string
	var cf0, cf1, cfUSD, tvl0, tvl1, tvlETH, tvlUSD string
	var feeGrowth0, feeGrowth1 *string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Address, &p.ChainID, &p.Token0ID, &p.Token1ID, &p.FeeTier,
		&p.CreatedAtTimestamp, &p.CreatedAtBlockNumber,
		&liquidity, &sqrtPrice, &p.Tick,
		&price0, &price1,
		&vol0, &vol1, &volUSD, &untracked, &fees, &p.TxCount,
		&cf0, &cf1, &cfUSD,
		&tvl0, &tvl1, &tvlETH, &tvlUSD,
		&feeGrowth0, &feeGrowth1,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool: %w", err)
	}

	if p.Liquidity, err = parseBig(liquidity); err != nil {
		return nil, err
	}
	if p.SqrtPrice, err = parseBig(sqrtPrice); err != nil {
		return nil, err
	}
	if p.Token0Price, err = parseDec(price0); err != nil {
		return nil, err
	}
	if p.Token1Price, err = parseDec(price1); err != nil {
		return nil, err
	}
	if p.VolumeToken0, err = parseDec(vol0); err != nil {
		return nil, err
	}
	if p.VolumeToken1, err = parseDec(vol1); err != nil {
		return nil, err
	}
	if p.VolumeUSD, err = parseDec(volUSD); err != nil {
		return nil, err
	}
	if p.UntrackedVolumeUSD, err = parseDec(untracked); err != nil {
		return nil, err
	}
	if p.FeesUSD, err = parseDec(fees); err != nil {
		return nil, err
	}
	if p.CollectedFeesToken0, err = parseDec(cf0); err != nil {
		return nil, err
	}
	if p.CollectedFeesToken1, err = parseDec(cf1); err != nil {
		return nil, err
	}
	if p.CollectedFeesUSD, err = parseDec(cfUSD); err != nil {
		return nil, err
	}
	if p.TotalValueLockedToken0, err = parseDec(tvl0); err != nil {
		return nil, err
	}
	if p.TotalValueLockedToken1, err = parseDec(tvl1); err != nil {
		return nil, err
	}
	if p.TotalValueLockedETH, err = parseDec(tvlETH); err != nil {
		return nil, err
	}
	if p.TotalValueLockedUSD, err = parseDec(tvlUSD); err != nil {
		return nil, err
	}
	if p.FeeGrowthGlobal0X128, err = parseNullBig(feeGrowth0); err != nil {
		return nil, err
	}
	if p.FeeGrowthGlobal1X128, err = parseNullBig(feeGrowth1); err != nil {
		return nil, err
	}
	return p, nil
}

// Set upserts a pool.
func (s *PoolStore) Set(ctx context.Context, p *domain.Pool) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO pools (
			id, address, chain_id, token0_id, token1_id, fee_tier,
			created_at_timestamp, created_at_block_number,
			liquidity, sqrt_price, tick,
			token0_price, token1_price,
			volume_token0, volume_token1, volume_usd,
			untracked_volume_usd, fees_usd, tx_count,
			collected_fees_token0, collected_fees_token1, collected_fees_usd,
			total_value_locked_token0, total_value_locked_token1,
			total_value_locked_eth, total_value_locked_usd,
			fee_growth_global0_x128, fee_growth_global1_x128
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		ON CONFLICT (id) DO UPDATE SET
			liquidity = EXCLUDED.liquidity,
			sqrt_price = EXCLUDED.sqrt_price,
			tick = EXCLUDED.tick,
			token0_price = EXCLUDED.token0_price,
			token1_price = EXCLUDED.token1_price,
			volume_token0 = EXCLUDED.volume_token0,
			volume_token1 = EXCLUDED.volume_token1,
			volume_usd = EXCLUDED.volume_usd,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			fees_usd = EXCLUDED.fees_usd,
			tx_count = EXCLUDED.tx_count,
			collected_fees_token0 = EXCLUDED.collected_fees_token0,
			collected_fees_token1 = EXCLUDED.collected_fees_token1,
			collected_fees_usd = EXCLUDED.collected_fees_usd,
			total_value_locked_token0 = EXCLUDED.total_value_locked_token0,
			total_value_locked_token1 = EXCLUDED.total_value_locked_token1,
			total_value_locked_eth = EXCLUDED.total_value_locked_eth,
			total_value_locked_usd = EXCLUDED.total_value_locked_usd,
			fee_growth_global0_x128 = EXCLUDED.fee_growth_global0_x128,
			fee_growth_global1_x128 = EXCLUDED.fee_growth_global1_x128
	`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Address, p.ChainID, p.Token0ID, p.Token1ID, p.FeeTier,
		p.CreatedAtTimestamp, p.CreatedAtBlockNumber,
		bigStr(p.Liquidity), bigStr(p.SqrtPrice), p.Tick,
		decStr(p.Token0Price), decStr(p.Token1Price),
		decStr(p.VolumeToken0), decStr(p.VolumeToken1), decStr(p.VolumeUSD),
		decStr(p.UntrackedVolumeUSD), decStr(p.FeesUSD), p.TxCount,
		decStr(p.CollectedFeesToken0), decStr(p.CollectedFeesToken1), decStr(p.CollectedFeesUSD),
		decStr(p.TotalValueLockedToken0), decStr(p.TotalValueLockedToken1),
		decStr(p.TotalValueLockedETH), decStr(p.TotalValueLockedUSD),
		nullBigStr(p.FeeGrowthGlobal0X128), nullBigStr(p.FeeGrowthGlobal1X128),
	)
	if err != nil {
		return fmt.Errorf("set pool: %w", err)
	}
	return nil
}
