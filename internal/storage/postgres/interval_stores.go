package postgres

import (
	"context"
	"fmt"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// PoolDayDataStore implements storage.PoolDayDataStore using PostgreSQL.
type PoolDayDataStore struct {
	pool *Pool
}

// NewPoolDayDataStore creates a new PoolDayDataStore.
func NewPoolDayDataStore(pool *Pool) *PoolDayDataStore {
	return &PoolDayDataStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolDayDataStore = (*PoolDayDataStore)(nil)

// Get retrieves a daily pool rollup. Returns ErrNotFound if absent.
func (s *PoolDayDataStore) Get(ctx context.Context, id string) (*domain.PoolDayData, error) {
	query := `
		SELECT id, chain_id, date, pool_id,
			open::text, high::text, low::text, close::text,
			token0_price::text, token1_price::text,
			liquidity::text, sqrt_price::text, tick,
			fee_growth_global0_x128::text, fee_growth_global1_x128::text,
			volume_token0::text, volume_token1::text, volume_usd::text,
			fees_usd::text, tvl_usd::text, tx_count
		FROM pool_day_data
		WHERE id = $1
	`

	d := &domain.PoolDayData{}
	var open, high, low, closeP, price0, price1 string
	var vol0, vol1, volUSD, fees, tvl string
	var liquidity, sqrtPrice, feeGrowth0, feeGrowth1 *string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ChainID, &d.Date, &d.PoolID,
		&open, &high, &low, &closeP, &price0, &price1,
		&liquidity, &sqrtPrice, &d.Tick,
		&feeGrowth0, &feeGrowth1,
		&vol0, &vol1, &volUSD, &fees, &tvl, &d.TxCount,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool day data: %w", err)
	}

	if d.Open, err = parseDec(open); err != nil {
		return nil, err
	}
	if d.High, err = parseDec(high); err != nil {
		return nil, err
	}
	if d.Low, err = parseDec(low); err != nil {
		return nil, err
	}
	if d.Close, err = parseDec(closeP); err != nil {
		return nil, err
	}
	if d.Token0Price, err = parseDec(price0); err != nil {
		return nil, err
	}
	if d.Token1Price, err = parseDec(price1); err != nil {
		return nil, err
	}
	if d.Liquidity, err = parseNullBig(liquidity); err != nil {
		return nil, err
	}
	if d.SqrtPrice, err = parseNullBig(sqrtPrice); err != nil {
		return nil, err
	}
	if d.FeeGrowthGlobal0X128, err = parseNullBig(feeGrowth0); err != nil {
		return nil, err
	}
	if d.FeeGrowthGlobal1X128, err = parseNullBig(feeGrowth1); err != nil {
		return nil, err
	}
	if d.VolumeToken0, err = parseDec(vol0); err != nil {
		return nil, err
	}
	if d.VolumeToken1, err = parseDec(vol1); err != nil {
		return nil, err
	}
	if d.VolumeUSD, err = parseDec(volUSD); err != nil {
		return nil, err
	}
	if d.FeesUSD, err = parseDec(fees); err != nil {
		return nil, err
	}
	if d.TVLUSD, err = parseDec(tvl); err != nil {
		return nil, err
	}
	return d, nil
}

// Set upserts a daily pool rollup.
func (s *PoolDayDataStore) Set(ctx context.Context, d *domain.PoolDayData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO pool_day_data (
			id, chain_id, date, pool_id,
			open, high, low, close, token0_price, token1_price,
			liquidity, sqrt_price, tick,
			fee_growth_global0_x128, fee_growth_global1_x128,
			volume_token0, volume_token1, volume_usd, fees_usd, tvl_usd, tx_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			token0_price = EXCLUDED.token0_price,
			token1_price = EXCLUDED.token1_price,
			liquidity = EXCLUDED.liquidity,
			sqrt_price = EXCLUDED.sqrt_price,
			tick = EXCLUDED.tick,
			fee_growth_global0_x128 = EXCLUDED.fee_growth_global0_x128,
			fee_growth_global1_x128 = EXCLUDED.fee_growth_global1_x128,
			volume_token0 = EXCLUDED.volume_token0,
			volume_token1 = EXCLUDED.volume_token1,
			volume_usd = EXCLUDED.volume_usd,
			fees_usd = EXCLUDED.fees_usd,
			tvl_usd = EXCLUDED.tvl_usd,
			tx_count = EXCLUDED.tx_count
	`

	_, err := s.pool.Exec(ctx, query,
		d.ID, d.ChainID, d.Date, d.PoolID,
		decStr(d.Open), decStr(d.High), decStr(d.Low), decStr(d.Close),
		decStr(d.Token0Price), decStr(d.Token1Price),
		nullBigStr(d.Liquidity), nullBigStr(d.SqrtPrice), d.Tick,
		nullBigStr(d.FeeGrowthGlobal0X128), nullBigStr(d.FeeGrowthGlobal1X128),
		decStr(d.VolumeToken0), decStr(d.VolumeToken1), decStr(d.VolumeUSD),
		decStr(d.FeesUSD), decStr(d.TVLUSD), d.TxCount,
	)
	if err != nil {
		return fmt.Errorf("set pool day data: %w", err)
	}
	return nil
}

// PoolHourDataStore implements storage.PoolHourDataStore using PostgreSQL.
type PoolHourDataStore struct {
	pool *Pool
}

// NewPoolHourDataStore creates a new PoolHourDataStore.
func NewPoolHourDataStore(pool *Pool) *PoolHourDataStore {
	return &PoolHourDataStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolHourDataStore = (*PoolHourDataStore)(nil)

// Get retrieves an hourly pool rollup. Returns ErrNotFound if absent.
func (s *PoolHourDataStore) Get(ctx context.Context, id string) (*domain.PoolHourData, error) {
	query := `
		SELECT id, chain_id, period_start_unix, pool_id,
			open::text, high::text, low::text, close::text,
			token0_price::text, token1_price::text,
			liquidity::text, sqrt_price::text, tick,
			fee_growth_global0_x128::text, fee_growth_global1_x128::text,
			volume_token0::text, volume_token1::text, volume_usd::text,
			fees_usd::text, tvl_usd::text, tx_count
		FROM pool_hour_data
		WHERE id = $1
	`

	d := &domain.PoolHourData{}
	var open, high, low, closeP, price0, price1 string
	var vol0, vol1, volUSD, fees, tvl string
	var liquidity, sqrtPrice, feeGrowth0, feeGrowth1 *string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ChainID, &d.PeriodStartUnix, &d.PoolID,
		&open, &high, &low, &closeP, &price0, &price1,
		&liquidity, &sqrtPrice, &d.Tick,
		&feeGrowth0, &feeGrowth1,
		&vol0, &vol1, &volUSD, &fees, &tvl, &d.TxCount,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool hour data: %w", err)
	}

	if d.Open, err = parseDec(open); err != nil {
		return nil, err
	}
	if d.High, err = parseDec(high); err != nil {
		return nil, err
	}
	if d.Low, err = parseDec(low); err != nil {
		return nil, err
	}
	if d.Close, err = parseDec(closeP); err != nil {
		return nil, err
	}
	if d.Token0Price, err = parseDec(price0); err != nil {
		return nil, err
	}
	if d.Token1Price, err = parseDec(price1); err != nil {
		return nil, err
	}
	if d.Liquidity, err = parseNullBig(liquidity); err != nil {
		return nil, err
	}
	if d.SqrtPrice, err = parseNullBig(sqrtPrice); err != nil {
		return nil, err
	}
	if d.FeeGrowthGlobal0X128, err = parseNullBig(feeGrowth0); err != nil {
		return nil, err
	}
	if d.FeeGrowthGlobal1X128, err = parseNullBig(feeGrowth1); err != nil {
		return nil, err
	}
	if d.VolumeToken0, err = parseDec(vol0); err != nil {
		return nil, err
	}
	if d.VolumeToken1, err = parseDec(vol1); err != nil {
		return nil, err
	}
	if d.VolumeUSD, err = parseDec(volUSD); err != nil {
		return nil, err
	}
	if d.FeesUSD, err = parseDec(fees); err != nil {
		return nil, err
	}
	if d.TVLUSD, err = parseDec(tvl); err != nil {
		return nil, err
	}
	return d, nil
}

// Set upserts an hourly pool rollup.
func (s *PoolHourDataStore) Set(ctx context.Context, d *domain.PoolHourData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO pool_hour_data (
			id, chain_id, period_start_unix, pool_id,
			open, high, low, close, token0_price, token1_price,
			liquidity, sqrt_price, tick,
			fee_growth_global0_x128, fee_growth_global1_x128,
			volume_token0, volume_token1, volume_usd, fees_usd, tvl_usd, tx_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			token0_price = EXCLUDED.token0_price,
			token1_price = EXCLUDED.token1_price,
			liquidity = EXCLUDED.liquidity,
			sqrt_price = EXCLUDED.sqrt_price,
			tick = EXCLUDED.tick,
			fee_growth_global0_x128 = EXCLUDED.fee_growth_global0_x128,
			fee_growth_global1_x128 = EXCLUDED.fee_growth_global1_x128,
			volume_token0 = EXCLUDED.volume_token0,
			volume_token1 = EXCLUDED.volume_token1,
			volume_usd = EXCLUDED.volume_usd,
			fees_usd = EXCLUDED.fees_usd,
			tvl_usd = EXCLUDED.tvl_usd,
			tx_count = EXCLUDED.tx_count
	`

	_, err := s.pool.Exec(ctx, query,
		d.ID, d.ChainID, d.PeriodStartUnix, d.PoolID,
		decStr(d.Open), decStr(d.High), decStr(d.Low), decStr(d.Close),
		decStr(d.Token0Price), decStr(d.Token1Price),
		nullBigStr(d.Liquidity), nullBigStr(d.SqrtPrice), d.Tick,
		nullBigStr(d.FeeGrowthGlobal0X128), nullBigStr(d.FeeGrowthGlobal1X128),
		decStr(d.VolumeToken0), decStr(d.VolumeToken1), decStr(d.VolumeUSD),
		decStr(d.FeesUSD), decStr(d.TVLUSD), d.TxCount,
	)
	if err != nil {
		return fmt.Errorf("set pool hour data: %w", err)
	}
	return nil
}

// TokenDayDataStore implements storage.TokenDayDataStore using PostgreSQL.
type TokenDayDataStore struct {
	pool *Pool
}

// NewTokenDayDataStore creates a new TokenDayDataStore.
func NewTokenDayDataStore(pool *Pool) *TokenDayDataStore {
	return &TokenDayDataStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenDayDataStore = (*TokenDayDataStore)(nil)

// Get retrieves a daily token rollup. Returns ErrNotFound if absent.
func (s *TokenDayDataStore) Get(ctx context.Context, id string) (*domain.TokenDayData, error) {
	query := `
		SELECT id, chain_id, date, token_id,
			open::text, high::text, low::text, close::text, price_usd::text,
			volume::text, volume_usd::text, untracked_volume_usd::text, fees_usd::text,
			total_value_locked::text, total_value_locked_usd::text
		FROM token_day_data
		WHERE id = $1
	`

	d := &domain.TokenDayData{}
	var open, high, low, closeP, price, volume, volumeUSD, untracked, fees, tvl, tvlUSD string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ChainID, &d.Date, &d.TokenID,
		&open, &high, &low, &closeP, &price,
		&volume, &volumeUSD, &untracked, &fees, &tvl, &tvlUSD,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token day data: %w", err)
	}

	if d.Open, err = parseDec(open); err != nil {
		return nil, err
	}
	if d.High, err = parseDec(high); err != nil {
		return nil, err
	}
	if d.Low, err = parseDec(low); err != nil {
		return nil, err
	}
	if d.Close, err = parseDec(closeP); err != nil {
		return nil, err
	}
	if d.PriceUSD, err = parseDec(price); err != nil {
		return nil, err
	}
	if d.Volume, err = parseDec(volume); err != nil {
		return nil, err
	}
	if d.VolumeUSD, err = parseDec(volumeUSD); err != nil {
		return nil, err
	}
	if d.UntrackedVolumeUSD, err = parseDec(untracked); err != nil {
		return nil, err
	}
	if d.FeesUSD, err = parseDec(fees); err != nil {
		return nil, err
	}
	if d.TotalValueLocked, err = parseDec(tvl); err != nil {
		return nil, err
	}
	if d.TotalValueLockedUSD, err = parseDec(tvlUSD); err != nil {
		return nil, err
	}
	return d, nil
}

// Set upserts a daily token rollup.
func (s *TokenDayDataStore) Set(ctx context.Context, d *domain.TokenDayData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_day_data (
			id, chain_id, date, token_id,
			open, high, low, close, price_usd,
			volume, volume_usd, untracked_volume_usd, fees_usd,
			total_value_locked, total_value_locked_usd
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			price_usd = EXCLUDED.price_usd,
			volume = EXCLUDED.volume,
			volume_usd = EXCLUDED.volume_usd,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			fees_usd = EXCLUDED.fees_usd,
			total_value_locked = EXCLUDED.total_value_locked,
			total_value_locked_usd = EXCLUDED.total_value_locked_usd
	`

	_, err := s.pool.Exec(ctx, query,
		d.ID, d.ChainID, d.Date, d.TokenID,
		decStr(d.Open), decStr(d.High), decStr(d.Low), decStr(d.Close), decStr(d.PriceUSD),
		decStr(d.Volume), decStr(d.VolumeUSD), decStr(d.UntrackedVolumeUSD), decStr(d.FeesUSD),
		decStr(d.TotalValueLocked), decStr(d.TotalValueLockedUSD),
	)
	if err != nil {
		return fmt.Errorf("set token day data: %w", err)
	}
	return nil
}

// TokenHourDataStore implements storage.TokenHourDataStore using PostgreSQL.
type TokenHourDataStore struct {
	pool *Pool
}

// NewTokenHourDataStore creates a new TokenHourDataStore.
func NewTokenHourDataStore(pool *Pool) *TokenHourDataStore {
	return &TokenHourDataStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenHourDataStore = (*TokenHourDataStore)(nil)

// Get retrieves an hourly token rollup. Returns ErrNotFound if absent.
func (s *TokenHourDataStore) Get(ctx context.Context, id string) (*domain.TokenHourData, error) {
	query := `
		SELECT id, chain_id, period_start_unix, token_id,
			open::text, high::text, low::text, close::text, price_usd::text,
			volume::text, volume_usd::text, untracked_volume_usd::text, fees_usd::text,
			total_value_locked::text, total_value_locked_usd::text
		FROM token_hour_data
		WHERE id = $1
	`

	d := &domain.TokenHourData{}
	var open, high, low, closeP, price, volume, volumeUSD, untracked, fees, tvl, tvlUSD string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ChainID, &d.PeriodStartUnix, &d.TokenID,
		&open, &high, &low, &closeP, &price,
		&volume, &volumeUSD, &untracked, &fees, &tvl, &tvlUSD,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token hour data: %w", err)
	}

	if d.Open, err = parseDec(open); err != nil {
		return nil, err
	}
	if d.High, err = parseDec(high); err != nil {
		return nil, err
	}
	if d.Low, err = parseDec(low); err != nil {
		return nil, err
	}
	if d.Close, err = parseDec(closeP); err != nil {
		return nil, err
	}
	if d.PriceUSD, err = parseDec(price); err != nil {
		return nil, err
	}
	if d.Volume, err = parseDec(volume); err != nil {
		return nil, err
	}
	if d.VolumeUSD, err = parseDec(volumeUSD); err != nil {
		return nil, err
	}
	if d.UntrackedVolumeUSD, err = parseDec(untracked); err != nil {
		return nil, err
	}
	if d.FeesUSD, err = parseDec(fees); err != nil {
		return nil, err
	}
	if d.TotalValueLocked, err = parseDec(tvl); err != nil {
		return nil, err
	}
	if d.TotalValueLockedUSD, err = parseDec(tvlUSD); err != nil {
		return nil, err
	}
	return d, nil
}

// Set upserts an hourly token rollup.
func (s *TokenHourDataStore) Set(ctx context.Context, d *domain.TokenHourData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_hour_data (
			id, chain_id, period_start_unix, token_id,
			open, high, low, close, price_usd,
			volume, volume_usd, untracked_volume_usd, fees_usd,
			total_value_locked, total_value_locked_usd
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			price_usd = EXCLUDED.price_usd,
			volume = EXCLUDED.volume,
			volume_usd = EXCLUDED.volume_usd,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			fees_usd = EXCLUDED.fees_usd,
			total_value_locked = EXCLUDED.total_value_locked,
			total_value_locked_usd = EXCLUDED.total_value_locked_usd
	`

	_, err := s.pool.Exec(ctx, query,
		d.ID, d.ChainID, d.PeriodStartUnix, d.TokenID,
		decStr(d.Open), decStr(d.High), decStr(d.Low), decStr(d.Close), decStr(d.PriceUSD),
		decStr(d.Volume), decStr(d.VolumeUSD), decStr(d.UntrackedVolumeUSD), decStr(d.FeesUSD),
		decStr(d.TotalValueLocked), decStr(d.TotalValueLockedUSD),
	)
	if err != nil {
		return fmt.Errorf("set token hour data: %w", err)
	}
	return nil
}

// ProtocolDayDataStore implements storage.ProtocolDayDataStore using PostgreSQL.
type ProtocolDayDataStore struct {
	pool *Pool
}

// NewProtocolDayDataStore creates a new ProtocolDayDataStore.
func NewProtocolDayDataStore(pool *Pool) *ProtocolDayDataStore {
	return &ProtocolDayDataStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProtocolDayDataStore = (*ProtocolDayDataStore)(nil)

// Get retrieves a protocol-wide daily rollup. Returns ErrNotFound if absent.
func (s *ProtocolDayDataStore) Get(ctx context.Context, id string) (*domain.ProtocolDayData, error) {
	query := `
		SELECT id, chain_id, date,
			volume_eth::text, volume_usd::text, volume_usd_untracked::text,
			fees_usd::text, tvl_usd::text, tx_count
		FROM protocol_day_data
		WHERE id = $1
	`

	d := &domain.ProtocolDayData{}
	var volETH, volUSD, untracked, fees, tvl string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ChainID, &d.Date,
		&volETH, &volUSD, &untracked, &fees, &tvl, &d.TxCount,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get protocol day data: %w", err)
	}

	if d.VolumeETH, err = parseDec(volETH); err != nil {
		return nil, err
	}
	if d.VolumeUSD, err = parseDec(volUSD); err != nil {
		return nil, err
	}
	if d.VolumeUSDUntracked, err = parseDec(untracked); err != nil {
		return nil, err
	}
	if d.FeesUSD, err = parseDec(fees); err != nil {
		return nil, err
	}
	if d.TVLUSD, err = parseDec(tvl); err != nil {
		return nil, err
	}
	return d, nil
}

// Set upserts a protocol-wide daily rollup.
func (s *ProtocolDayDataStore) Set(ctx context.Context, d *domain.ProtocolDayData) error {
	if d == nil || d.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO protocol_day_data (
			id, chain_id, date,
			volume_eth, volume_usd, volume_usd_untracked, fees_usd, tvl_usd, tx_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			volume_eth = EXCLUDED.volume_eth,
			volume_usd = EXCLUDED.volume_usd,
			volume_usd_untracked = EXCLUDED.volume_usd_untracked,
			fees_usd = EXCLUDED.fees_usd,
			tvl_usd = EXCLUDED.tvl_usd,
			tx_count = EXCLUDED.tx_count
	`

	_, err := s.pool.Exec(ctx, query,
		d.ID, d.ChainID, d.Date,
		decStr(d.VolumeETH), decStr(d.VolumeUSD), decStr(d.VolumeUSDUntracked),
		decStr(d.FeesUSD), decStr(d.TVLUSD), d.TxCount,
	)
	if err != nil {
		return fmt.Errorf("set protocol day data: %w", err)
	}
	return nil
}
