package ledger

import (
	"context"
	"errors"
	"strconv"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/intervals"
	"univ3-pool-lab/internal/pricing"
	"univ3-pool-lab/internal/storage"
)

// handleInitialize records the pool's first price and tick, refreshes
// the chain's native USD price and re-derives both token prices.
func (e *Engine) handleInitialize(ctx context.Context, cfg *chains.Config, ev *domain.Event) error {
	params := ev.Initialize
	meta := ev.Meta

	pool, err := e.stores.Pools.Get(ctx, domain.ScopedID(meta.Address, meta.ChainID))
	if errors.Is(err, storage.ErrNotFound) {
		e.drop(meta, "missing_pool")
		return nil
	}
	if err != nil {
		return err
	}

	tick := params.Tick
	pool.SqrtPrice = params.SqrtPriceX96
	pool.Tick = &tick
	if err := e.stores.Pools.Set(ctx, pool); err != nil {
		return err
	}

	bundle, err := e.stores.Bundles.Get(ctx, domain.BundleID(meta.ChainID))
	if errors.Is(err, storage.ErrNotFound) {
		e.drop(meta, "missing_bundle")
		return nil
	}
	if err != nil {
		return err
	}

	nativeUSD, err := pricing.NativeUSDPrice(ctx, e.stores.Pools, cfg)
	if err != nil {
		return err
	}
	bundle.EthPriceUSD = nativeUSD
	if err := e.stores.Bundles.Set(ctx, bundle); err != nil {
		return err
	}
	nativeF, _ := nativeUSD.Float64()
	e.metrics.NativePriceUSD.WithLabelValues(strconv.FormatUint(meta.ChainID, 10)).Set(nativeF)

	// Pool buckets only; token buckets wait for flow events.
	prevDay, err := e.getPoolDay(ctx, domain.BucketID(pool.Address, intervals.DayIndex(meta.Timestamp), meta.ChainID))
	if err != nil {
		return err
	}
	prevHour, err := e.getPoolHour(ctx, domain.BucketID(pool.Address, intervals.HourIndex(meta.Timestamp), meta.ChainID))
	if err != nil {
		return err
	}
	if prevHour == nil {
		if err := e.backfillFeeGrowth(ctx, meta.ChainID, pool); err != nil {
			return err
		}
	}
	if err := e.stores.PoolDayData.Set(ctx, intervals.UpdatePoolDayData(prevDay, pool, meta.Timestamp)); err != nil {
		return err
	}
	if err := e.stores.PoolHourData.Set(ctx, intervals.UpdatePoolHourData(prevHour, pool, meta.Timestamp)); err != nil {
		return err
	}

	token0, err := e.stores.Tokens.Get(ctx, pool.Token0ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	token1, err1 := e.stores.Tokens.Get(ctx, pool.Token1ID)
	if err1 != nil && !errors.Is(err1, storage.ErrNotFound) {
		return err1
	}
	if token0 == nil || token1 == nil {
		return nil
	}

	if err := e.refreshDerivedPrices(ctx, cfg, bundle, token0, token1); err != nil {
		return err
	}
	if err := e.stores.Tokens.Set(ctx, token0); err != nil {
		return err
	}
	return e.stores.Tokens.Set(ctx, token1)
}

// refreshDerivedPrices recomputes both tokens' native prices in place.
func (e *Engine) refreshDerivedPrices(ctx context.Context, cfg *chains.Config, bundle *domain.Bundle, token0, token1 *domain.Token) error {
	chainLabel := strconv.FormatUint(bundle.ChainID, 10)

	derived0, err := pricing.DeriveNativePrice(ctx, token0, e.stores, cfg, bundle.EthPriceUSD)
	if err != nil {
		return err
	}
	derived1, err := pricing.DeriveNativePrice(ctx, token1, e.stores, cfg, bundle.EthPriceUSD)
	if err != nil {
		return err
	}
	if derived0.IsZero() {
		e.metrics.OracleMisses.WithLabelValues(chainLabel).Inc()
	}
	if derived1.IsZero() {
		e.metrics.OracleMisses.WithLabelValues(chainLabel).Inc()
	}

	token0.DerivedETH = derived0
	token1.DerivedETH = derived1
	return nil
}
