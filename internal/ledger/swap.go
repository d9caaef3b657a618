package ledger

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/pricemath"
	"univ3-pool-lab/internal/pricing"
	"univ3-pool-lab/internal/storage"
)

var two = decimal.New(2, 0)
var feeDenominator = decimal.New(1_000_000, 0)

// handleSwap is the hot path: it accumulates volume and fee flows,
// refreshes the pool price from the post-swap sqrt price, re-derives
// the native USD price and both token prices, and rebuilds every TVL
// aggregate under the new rates.
func (e *Engine) handleSwap(ctx context.Context, cfg *chains.Config, ev *domain.Event) error {
	params := ev.Swap
	meta := ev.Meta

	if swapSkipPools[meta.Address] {
		e.drop(meta, "skip_pool")
		return nil
	}

	ent, reason, err := e.loadPoolEntities(ctx, cfg, meta)
	if err != nil {
		return err
	}
	if reason != "" {
		e.drop(meta, reason)
		return nil
	}
	bundle, pool, factory, token0, token1 := ent.bundle, ent.pool, ent.factory, ent.token0, ent.token1

	amount0 := pricemath.ToDecimal(params.Amount0, token0.Decimals)
	amount1 := pricemath.ToDecimal(params.Amount1, token1.Decimals)
	amount0Abs := amount0.Abs()
	amount1Abs := amount1.Abs()

	amount0USD := amount0Abs.Mul(tokenPriceUSD(token0, bundle.EthPriceUSD))
	amount1USD := amount1Abs.Mul(tokenPriceUSD(token1, bundle.EthPriceUSD))

	// Input and output legs cannot both count as volume, so tracked
	// volume is the whitelisted-leg average and untracked volume is the
	// derived-price average.
	amountTotalUSDTracked := pricing.TrackedAmountUSD(amount0Abs, token0, amount1Abs, token1, bundle.EthPriceUSD, cfg)
	amountTotalETHTracked := pricemath.SafeDiv(amountTotalUSDTracked, bundle.EthPriceUSD)
	amountTotalUSDUntracked := amount0USD.Add(amount1USD).Div(two)

	feeTier := decimal.New(pool.FeeTier, 0)
	feesETH := amountTotalETHTracked.Mul(feeTier).Div(feeDenominator)
	feesUSD := amountTotalUSDTracked.Mul(feeTier).Div(feeDenominator)

	factory.TxCount++
	factory.TotalVolumeETH = factory.TotalVolumeETH.Add(amountTotalETHTracked)
	factory.TotalVolumeUSD = factory.TotalVolumeUSD.Add(amountTotalUSDTracked)
	factory.UntrackedVolumeUSD = factory.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	factory.TotalFeesETH = factory.TotalFeesETH.Add(feesETH)
	factory.TotalFeesUSD = factory.TotalFeesUSD.Add(feesUSD)
	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Sub(pool.TotalValueLockedETH)

	pool.TxCount++
	pool.VolumeToken0 = pool.VolumeToken0.Add(amount0Abs)
	pool.VolumeToken1 = pool.VolumeToken1.Add(amount1Abs)
	pool.VolumeUSD = pool.VolumeUSD.Add(amountTotalUSDTracked)
	pool.UntrackedVolumeUSD = pool.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	pool.FeesUSD = pool.FeesUSD.Add(feesUSD)

	tick := params.Tick
	pool.Liquidity = params.Liquidity
	pool.Tick = &tick
	pool.SqrtPrice = params.SqrtPriceX96
	pool.TotalValueLockedToken0 = pool.TotalValueLockedToken0.Add(amount0)
	pool.TotalValueLockedToken1 = pool.TotalValueLockedToken1.Add(amount1)

	token0.Volume = token0.Volume.Add(amount0Abs)
	token0.TotalValueLocked = token0.TotalValueLocked.Add(amount0)
	token0.VolumeUSD = token0.VolumeUSD.Add(amountTotalUSDTracked)
	token0.UntrackedVolumeUSD = token0.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	token0.FeesUSD = token0.FeesUSD.Add(feesUSD)
	token0.TxCount++

	token1.Volume = token1.Volume.Add(amount1Abs)
	token1.TotalValueLocked = token1.TotalValueLocked.Add(amount1)
	token1.VolumeUSD = token1.VolumeUSD.Add(amountTotalUSDTracked)
	token1.UntrackedVolumeUSD = token1.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	token1.FeesUSD = token1.FeesUSD.Add(feesUSD)
	token1.TxCount++

	pool.Token0Price, pool.Token1Price = pricemath.SqrtPriceX96ToTokenPrices(pool.SqrtPrice, token0.Decimals, token1.Decimals)
	if err := e.stores.Pools.Set(ctx, pool); err != nil {
		return err
	}

	// The reference pool may be this one, so the bundle refresh must
	// read the store after the pool write above.
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

	if err := e.refreshDerivedPrices(ctx, cfg, bundle, token0, token1); err != nil {
		return err
	}

	tx, err := e.loadTransaction(ctx, meta)
	if err != nil {
		return err
	}

	// Everything depending on the new USD rates.
	pool.TotalValueLockedETH = pool.TotalValueLockedToken0.Mul(token0.DerivedETH).
		Add(pool.TotalValueLockedToken1.Mul(token1.DerivedETH))
	pool.TotalValueLockedUSD = pool.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Add(pool.TotalValueLockedETH)
	factory.TotalValueLockedUSD = factory.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	token0.TotalValueLockedUSD = token0.TotalValueLocked.Mul(tokenPriceUSD(token0, bundle.EthPriceUSD))
	token1.TotalValueLockedUSD = token1.TotalValueLocked.Mul(tokenPriceUSD(token1, bundle.EthPriceUSD))

	record := &domain.SwapRecord{
		ID:            domain.EventRecordID(tx.ID, meta.LogIndex),
		ChainID:       meta.ChainID,
		TransactionID: tx.ID,
		Timestamp:     tx.Timestamp,
		LogIndex:      meta.LogIndex,
		PoolID:        pool.ID,
		Token0ID:      pool.Token0ID,
		Token1ID:      pool.Token1ID,
		Sender:        params.Sender,
		Recipient:     params.Recipient,
		Origin:        meta.TxFrom,
		Amount0:       amount0,
		Amount1:       amount1,
		AmountUSD:     amountTotalUSDTracked,
		SqrtPriceX96:  params.SqrtPriceX96,
		Tick:          params.Tick,
	}

	r, err := e.updateRollups(ctx, ent, meta)
	if err != nil {
		return err
	}

	// Volume and fee flows on top of the generic bucket update.
	r.protocolDay.VolumeETH = r.protocolDay.VolumeETH.Add(amountTotalETHTracked)
	r.protocolDay.VolumeUSD = r.protocolDay.VolumeUSD.Add(amountTotalUSDTracked)
	r.protocolDay.VolumeUSDUntracked = r.protocolDay.VolumeUSDUntracked.Add(amountTotalUSDUntracked)
	r.protocolDay.FeesUSD = r.protocolDay.FeesUSD.Add(feesUSD)

	r.poolDay.VolumeUSD = r.poolDay.VolumeUSD.Add(amountTotalUSDTracked)
	r.poolDay.VolumeToken0 = r.poolDay.VolumeToken0.Add(amount0Abs)
	r.poolDay.VolumeToken1 = r.poolDay.VolumeToken1.Add(amount1Abs)
	r.poolDay.FeesUSD = r.poolDay.FeesUSD.Add(feesUSD)

	r.poolHour.VolumeUSD = r.poolHour.VolumeUSD.Add(amountTotalUSDTracked)
	r.poolHour.VolumeToken0 = r.poolHour.VolumeToken0.Add(amount0Abs)
	r.poolHour.VolumeToken1 = r.poolHour.VolumeToken1.Add(amount1Abs)
	r.poolHour.FeesUSD = r.poolHour.FeesUSD.Add(feesUSD)

	r.token0Day.Volume = r.token0Day.Volume.Add(amount0Abs)
	r.token0Day.VolumeUSD = r.token0Day.VolumeUSD.Add(amountTotalUSDTracked)
	r.token0Day.UntrackedVolumeUSD = r.token0Day.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	r.token0Day.FeesUSD = r.token0Day.FeesUSD.Add(feesUSD)

	r.token0Hour.Volume = r.token0Hour.Volume.Add(amount0Abs)
	r.token0Hour.VolumeUSD = r.token0Hour.VolumeUSD.Add(amountTotalUSDTracked)
	r.token0Hour.UntrackedVolumeUSD = r.token0Hour.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	r.token0Hour.FeesUSD = r.token0Hour.FeesUSD.Add(feesUSD)

	r.token1Day.Volume = r.token1Day.Volume.Add(amount1Abs)
	r.token1Day.VolumeUSD = r.token1Day.VolumeUSD.Add(amountTotalUSDTracked)
	r.token1Day.UntrackedVolumeUSD = r.token1Day.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	r.token1Day.FeesUSD = r.token1Day.FeesUSD.Add(feesUSD)

	r.token1Hour.Volume = r.token1Hour.Volume.Add(amount1Abs)
	r.token1Hour.VolumeUSD = r.token1Hour.VolumeUSD.Add(amountTotalUSDTracked)
	r.token1Hour.UntrackedVolumeUSD = r.token1Hour.UntrackedVolumeUSD.Add(amountTotalUSDUntracked)
	r.token1Hour.FeesUSD = r.token1Hour.FeesUSD.Add(feesUSD)

	if err := e.saveRollups(ctx, r); err != nil {
		return err
	}

	if err := e.stores.Factories.Set(ctx, factory); err != nil {
		return err
	}
	if err := e.stores.Pools.Set(ctx, pool); err != nil {
		return err
	}
	if err := e.stores.Tokens.Set(ctx, token0); err != nil {
		return err
	}
	if err := e.stores.Tokens.Set(ctx, token1); err != nil {
		return err
	}

	if err := e.stores.Swaps.Insert(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			e.drop(meta, "duplicate_record")
			return nil
		}
		return err
	}
	return nil
}
