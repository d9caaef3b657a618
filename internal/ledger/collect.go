package ledger

import (
	"context"
	"errors"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/pricemath"
	"univ3-pool-lab/internal/pricing"
	"univ3-pool-lab/internal/storage"
)

// handleCollect debits collected fees from the pool's TVL and credits
// its collected-fee counters. Collects against unknown pools or tokens
// are skipped without logging: fee collection on positions from before
// the indexer's start window is routine.
func (e *Engine) handleCollect(ctx context.Context, cfg *chains.Config, ev *domain.Event) error {
	params := ev.Collect
	meta := ev.Meta

	bundle, err := e.stores.Bundles.Get(ctx, domain.BundleID(meta.ChainID))
	if errors.Is(err, storage.ErrNotFound) {
		e.drop(meta, "missing_bundle")
		return nil
	}
	if err != nil {
		return err
	}

	pool, err := e.stores.Pools.Get(ctx, domain.ScopedID(meta.Address, meta.ChainID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	factory, err := e.stores.Factories.Get(ctx, domain.ScopedID(cfg.FactoryAddress, meta.ChainID))
	if errors.Is(err, storage.ErrNotFound) {
		e.drop(meta, "missing_factory")
		return nil
	}
	if err != nil {
		return err
	}

	token0, err := e.stores.Tokens.Get(ctx, pool.Token0ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	token1, err := e.stores.Tokens.Get(ctx, pool.Token1ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := e.loadTransaction(ctx, meta)
	if err != nil {
		return err
	}

	collected0 := pricemath.ToDecimal(params.Amount0, token0.Decimals)
	collected1 := pricemath.ToDecimal(params.Amount1, token1.Decimals)
	collectedUSD := pricing.TrackedAmountUSD(collected0, token0, collected1, token1, bundle.EthPriceUSD, cfg)

	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Sub(pool.TotalValueLockedETH)
	factory.TxCount++

	token0.TxCount++
	token0.TotalValueLocked = token0.TotalValueLocked.Sub(collected0)
	token0.TotalValueLockedUSD = token0.TotalValueLocked.Mul(tokenPriceUSD(token0, bundle.EthPriceUSD))

	token1.TxCount++
	token1.TotalValueLocked = token1.TotalValueLocked.Sub(collected1)
	token1.TotalValueLockedUSD = token1.TotalValueLocked.Mul(tokenPriceUSD(token1, bundle.EthPriceUSD))

	pool.TxCount++
	pool.TotalValueLockedToken0 = pool.TotalValueLockedToken0.Sub(collected0)
	pool.TotalValueLockedToken1 = pool.TotalValueLockedToken1.Sub(collected1)
	pool.TotalValueLockedETH = pool.TotalValueLockedToken0.Mul(token0.DerivedETH).
		Add(pool.TotalValueLockedToken1.Mul(token1.DerivedETH))
	pool.TotalValueLockedUSD = pool.TotalValueLockedETH.Mul(bundle.EthPriceUSD)
	pool.CollectedFeesToken0 = pool.CollectedFeesToken0.Add(collected0)
	pool.CollectedFeesToken1 = pool.CollectedFeesToken1.Add(collected1)
	pool.CollectedFeesUSD = pool.CollectedFeesUSD.Add(collectedUSD)

	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Add(pool.TotalValueLockedETH)
	factory.TotalValueLockedUSD = factory.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	record := &domain.CollectRecord{
		ID:            domain.EventRecordID(tx.ID, meta.LogIndex),
		ChainID:       meta.ChainID,
		TransactionID: tx.ID,
		Timestamp:     meta.Timestamp,
		LogIndex:      meta.LogIndex,
		PoolID:        pool.ID,
		Owner:         params.Owner,
		Amount0:       collected0,
		Amount1:       collected1,
		AmountUSD:     collectedUSD,
		TickLower:     params.TickLower,
		TickUpper:     params.TickUpper,
	}

	ent := &poolEntities{bundle: bundle, pool: pool, factory: factory, token0: token0, token1: token1}
	if _, err := e.updateRollups(ctx, ent, meta); err != nil {
		return err
	}

	if err := e.stores.Tokens.Set(ctx, token0); err != nil {
		return err
	}
	if err := e.stores.Tokens.Set(ctx, token1); err != nil {
		return err
	}
	if err := e.stores.Factories.Set(ctx, factory); err != nil {
		return err
	}
	if err := e.stores.Pools.Set(ctx, pool); err != nil {
		return err
	}

	if err := e.stores.Collects.Insert(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			e.drop(meta, "duplicate_record")
			return nil
		}
		return err
	}
	return nil
}
