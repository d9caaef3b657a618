package ledger

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/intervals"
	"univ3-pool-lab/internal/storage"
)

// rollups carries the seven interval records touched by a pool event.
// updateRollups persists the generic update; the swap handler mutates
// the flow fields afterwards and persists again via saveRollups.
type rollups struct {
	protocolDay *domain.ProtocolDayData
	poolDay     *domain.PoolDayData
	poolHour    *domain.PoolHourData
	token0Day   *domain.TokenDayData
	token1Day   *domain.TokenDayData
	token0Hour  *domain.TokenHourData
	token1Hour  *domain.TokenHourData
}

// updateRollups folds the current entity state into all interval
// records for the event's timestamp. On the first event of a new hour
// bucket the optional fee-growth source backfills the pool's
// accumulators before the buckets are written.
func (e *Engine) updateRollups(ctx context.Context, ent *poolEntities, meta domain.EventMeta) (*rollups, error) {
	ts := meta.Timestamp
	dayIndex := intervals.DayIndex(ts)
	hourIndex := intervals.HourIndex(ts)

	prevProtocolDay, err := e.getProtocolDay(ctx, domain.ProtocolDayID(dayIndex, meta.ChainID))
	if err != nil {
		return nil, err
	}
	prevPoolDay, err := e.getPoolDay(ctx, domain.BucketID(ent.pool.Address, dayIndex, meta.ChainID))
	if err != nil {
		return nil, err
	}
	prevPoolHour, err := e.getPoolHour(ctx, domain.BucketID(ent.pool.Address, hourIndex, meta.ChainID))
	if err != nil {
		return nil, err
	}
	prevToken0Day, err := e.getTokenDay(ctx, domain.BucketID(ent.token0.Address, dayIndex, meta.ChainID))
	if err != nil {
		return nil, err
	}
	prevToken1Day, err := e.getTokenDay(ctx, domain.BucketID(ent.token1.Address, dayIndex, meta.ChainID))
	if err != nil {
		return nil, err
	}
	prevToken0Hour, err := e.getTokenHour(ctx, domain.BucketID(ent.token0.Address, hourIndex, meta.ChainID))
	if err != nil {
		return nil, err
	}
	prevToken1Hour, err := e.getTokenHour(ctx, domain.BucketID(ent.token1.Address, hourIndex, meta.ChainID))
	if err != nil {
		return nil, err
	}

	if prevPoolHour == nil {
		if err := e.backfillFeeGrowth(ctx, meta.ChainID, ent.pool); err != nil {
			return nil, err
		}
	}

	ethPrice := ent.bundle.EthPriceUSD
	r := &rollups{
		protocolDay: intervals.UpdateProtocolDayData(prevProtocolDay, ent.factory, meta.ChainID, ts),
		poolDay:     intervals.UpdatePoolDayData(prevPoolDay, ent.pool, ts),
		poolHour:    intervals.UpdatePoolHourData(prevPoolHour, ent.pool, ts),
		token0Day:   intervals.UpdateTokenDayData(prevToken0Day, ent.token0, tokenPriceUSD(ent.token0, ethPrice), ts),
		token1Day:   intervals.UpdateTokenDayData(prevToken1Day, ent.token1, tokenPriceUSD(ent.token1, ethPrice), ts),
		token0Hour:  intervals.UpdateTokenHourData(prevToken0Hour, ent.token0, tokenPriceUSD(ent.token0, ethPrice), ts),
		token1Hour:  intervals.UpdateTokenHourData(prevToken1Hour, ent.token1, tokenPriceUSD(ent.token1, ethPrice), ts),
	}

	if err := e.saveRollups(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// backfillFeeGrowth populates the pool's fee-growth accumulators from
// the chain's optional source. Callers invoke it only when an event
// opens a new hour bucket, bounding the cost to one RPC round-trip per
// pool per hour. A failed fetch is logged and skipped.
func (e *Engine) backfillFeeGrowth(ctx context.Context, chainID uint64, pool *domain.Pool) error {
	src, ok := e.feeGrowth[chainID]
	if !ok {
		return nil
	}
	fee0, fee1, err := src.FeeGrowthGlobals(ctx, pool.Address)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"chain": chainID,
			"pool":  pool.ID,
		}).WithError(err).Warn("fee growth backfill failed")
		return nil
	}
	pool.FeeGrowthGlobal0X128 = fee0
	pool.FeeGrowthGlobal1X128 = fee1
	return e.stores.Pools.Set(ctx, pool)
}

func (e *Engine) saveRollups(ctx context.Context, r *rollups) error {
	if err := e.stores.ProtocolDayData.Set(ctx, r.protocolDay); err != nil {
		return err
	}
	if err := e.stores.PoolDayData.Set(ctx, r.poolDay); err != nil {
		return err
	}
	if err := e.stores.PoolHourData.Set(ctx, r.poolHour); err != nil {
		return err
	}
	if err := e.stores.TokenDayData.Set(ctx, r.token0Day); err != nil {
		return err
	}
	if err := e.stores.TokenDayData.Set(ctx, r.token1Day); err != nil {
		return err
	}
	if err := e.stores.TokenHourData.Set(ctx, r.token0Hour); err != nil {
		return err
	}
	return e.stores.TokenHourData.Set(ctx, r.token1Hour)
}

func (e *Engine) getProtocolDay(ctx context.Context, id string) (*domain.ProtocolDayData, error) {
	d, err := e.stores.ProtocolDayData.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

func (e *Engine) getPoolDay(ctx context.Context, id string) (*domain.PoolDayData, error) {
	d, err := e.stores.PoolDayData.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

func (e *Engine) getPoolHour(ctx context.Context, id string) (*domain.PoolHourData, error) {
	d, err := e.stores.PoolHourData.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

func (e *Engine) getTokenDay(ctx context.Context, id string) (*domain.TokenDayData, error) {
	d, err := e.stores.TokenDayData.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

func (e *Engine) getTokenHour(ctx context.Context, id string) (*domain.TokenHourData, error) {
	d, err := e.stores.TokenHourData.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return d, err
}
