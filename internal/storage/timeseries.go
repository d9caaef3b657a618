package storage

import (
	"context"

	"univ3-pool-lab/internal/domain"
)

// CandleStore provides access to the exported pool OHLC timeseries.
// Rows are keyed by (chain, pool, period, bucket start); re-inserting a
// key replaces the previous row once the store merges.
type CandleStore interface {
	InsertBulk(ctx context.Context, candles []*domain.Candle) error
	GetByPool(ctx context.Context, chainID uint64, poolID, period string) ([]*domain.Candle, error)
	GetByTimeRange(ctx context.Context, chainID uint64, poolID, period string, start, end int64) ([]*domain.Candle, error)
}
