package clickhouse

import (
	"context"
	"fmt"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// CandleStore implements storage.CandleStore using ClickHouse. The
// table is a ReplacingMergeTree keyed by (chain, pool, period, bucket
// start) versioned on tx_count, so re-exporting a live bucket
// supersedes the earlier row after merges. Reads collapse duplicates
// with FINAL.
type CandleStore struct {
	conn *Conn
}

// NewCandleStore creates a new CandleStore.
func NewCandleStore(conn *Conn) *CandleStore {
	return &CandleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CandleStore = (*CandleStore)(nil)

// InsertBulk appends candles in one batch.
func (s *CandleStore) InsertBulk(ctx context.Context, candles []*domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO pool_candles (
			chain_id, pool_id, period, bucket_start,
			open, high, low, close,
			volume_token0, volume_token1, volume_usd, fees_usd, tvl_usd, tx_count
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, c := range candles {
		err = batch.Append(
			c.ChainID, c.PoolID, c.Period, uint64(c.BucketStart),
			c.Open, c.High, c.Low, c.Close,
			c.VolumeToken0, c.VolumeToken1, c.VolumeUSD, c.FeesUSD, c.TVLUSD,
			uint64(c.TxCount),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByPool retrieves all candles of one pool and period, ordered by
// bucket start ASC.
func (s *CandleStore) GetByPool(ctx context.Context, chainID uint64, poolID, period string) ([]*domain.Candle, error) {
	query := `
		SELECT chain_id, pool_id, period, bucket_start,
			open, high, low, close,
			volume_token0, volume_token1, volume_usd, fees_usd, tvl_usd, tx_count
		FROM pool_candles FINAL
		WHERE chain_id = ? AND pool_id = ? AND period = ?
		ORDER BY bucket_start ASC
	`

	rows, err := s.conn.Query(ctx, query, chainID, poolID, period)
	if err != nil {
		return nil, fmt.Errorf("query candles by pool: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// GetByTimeRange retrieves candles with bucket start within [start, end].
func (s *CandleStore) GetByTimeRange(ctx context.Context, chainID uint64, poolID, period string, start, end int64) ([]*domain.Candle, error) {
	query := `
		SELECT chain_id, pool_id, period, bucket_start,
			open, high, low, close,
			volume_token0, volume_token1, volume_usd, fees_usd, tvl_usd, tx_count
		FROM pool_candles FINAL
		WHERE chain_id = ? AND pool_id = ? AND period = ?
			AND bucket_start >= ? AND bucket_start <= ?
		ORDER BY bucket_start ASC
	`

	rows, err := s.conn.Query(ctx, query, chainID, poolID, period, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query candles by time range: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

func scanCandles(rows chRows) ([]*domain.Candle, error) {
	var candles []*domain.Candle

	for rows.Next() {
		var c domain.Candle
		var bucketStart, txCount uint64

		err := rows.Scan(
			&c.ChainID, &c.PoolID, &c.Period, &bucketStart,
			&c.Open, &c.High, &c.Low, &c.Close,
			&c.VolumeToken0, &c.VolumeToken1, &c.VolumeUSD, &c.FeesUSD, &c.TVLUSD,
			&txCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan candle row: %w", err)
		}

		c.BucketStart = int64(bucketStart)
		c.TxCount = int64(txCount)
		candles = append(candles, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candle rows: %w", err)
	}

	return candles, nil
}
