package ledger

import (
	"context"
	"errors"
	"math/big"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/pricemath"
	"univ3-pool-lab/internal/storage"
)

// handleMint credits a liquidity deposit: token and pool TVL grow by
// the deposited amounts, in-range liquidity grows when the position
// covers the current tick, and the boundary ticks are created or
// updated.
func (e *Engine) handleMint(ctx context.Context, cfg *chains.Config, ev *domain.Event) error {
	params := ev.Mint
	meta := ev.Meta

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
	amountUSD := amount0.Mul(tokenPriceUSD(token0, bundle.EthPriceUSD)).
		Add(amount1.Mul(tokenPriceUSD(token1, bundle.EthPriceUSD)))

	// Subtract the pool's stale TVL before recomputing it below.
	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Sub(pool.TotalValueLockedETH)
	factory.TxCount++

	token0.TxCount++
	token0.TotalValueLocked = token0.TotalValueLocked.Add(amount0)
	token0.TotalValueLockedUSD = token0.TotalValueLocked.Mul(tokenPriceUSD(token0, bundle.EthPriceUSD))

	token1.TxCount++
	token1.TotalValueLocked = token1.TotalValueLocked.Add(amount1)
	token1.TotalValueLockedUSD = token1.TotalValueLocked.Mul(tokenPriceUSD(token1, bundle.EthPriceUSD))

	pool.TxCount++
	if inRange(pool, params.TickLower, params.TickUpper) {
		pool.Liquidity = new(big.Int).Add(pool.Liquidity, params.Amount)
	}

	pool.TotalValueLockedToken0 = pool.TotalValueLockedToken0.Add(amount0)
	pool.TotalValueLockedToken1 = pool.TotalValueLockedToken1.Add(amount1)
	pool.TotalValueLockedETH = pool.TotalValueLockedToken0.Mul(token0.DerivedETH).
		Add(pool.TotalValueLockedToken1.Mul(token1.DerivedETH))
	pool.TotalValueLockedUSD = pool.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Add(pool.TotalValueLockedETH)
	factory.TotalValueLockedUSD = factory.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	tx, err := e.loadTransaction(ctx, meta)
	if err != nil {
		return err
	}

	record := &domain.MintRecord{
		ID:            domain.EventRecordID(tx.ID, meta.LogIndex),
		ChainID:       meta.ChainID,
		TransactionID: tx.ID,
		Timestamp:     tx.Timestamp,
		LogIndex:      meta.LogIndex,
		PoolID:        pool.ID,
		Token0ID:      pool.Token0ID,
		Token1ID:      pool.Token1ID,
		Owner:         params.Owner,
		Sender:        params.Sender,
		Origin:        meta.TxFrom,
		Amount:        params.Amount,
		Amount0:       amount0,
		Amount1:       amount1,
		AmountUSD:     amountUSD,
		TickLower:     params.TickLower,
		TickUpper:     params.TickUpper,
	}

	if err := e.applyMintToTicks(ctx, pool, params, meta); err != nil {
		return err
	}

	if _, err := e.updateRollups(ctx, ent, meta); err != nil {
		return err
	}

	if err := e.stores.Tokens.Set(ctx, token0); err != nil {
		return err
	}
	if err := e.stores.Tokens.Set(ctx, token1); err != nil {
		return err
	}
	if err := e.stores.Pools.Set(ctx, pool); err != nil {
		return err
	}
	if err := e.stores.Factories.Set(ctx, factory); err != nil {
		return err
	}

	if err := e.stores.Mints.Insert(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			e.drop(meta, "duplicate_record")
			return nil
		}
		return err
	}
	return nil
}

// handleBurn debits a liquidity withdrawal. It mirrors handleMint with
// subtraction; boundary ticks are only touched when both already
// exist.
func (e *Engine) handleBurn(ctx context.Context, cfg *chains.Config, ev *domain.Event) error {
	params := ev.Burn
	meta := ev.Meta

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
	amountUSD := amount0.Mul(tokenPriceUSD(token0, bundle.EthPriceUSD)).
		Add(amount1.Mul(tokenPriceUSD(token1, bundle.EthPriceUSD)))

	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Sub(pool.TotalValueLockedETH)
	factory.TxCount++

	token0.TxCount++
	token0.TotalValueLocked = token0.TotalValueLocked.Sub(amount0)
	token0.TotalValueLockedUSD = token0.TotalValueLocked.Mul(tokenPriceUSD(token0, bundle.EthPriceUSD))

	token1.TxCount++
	token1.TotalValueLocked = token1.TotalValueLocked.Sub(amount1)
	token1.TotalValueLockedUSD = token1.TotalValueLocked.Mul(tokenPriceUSD(token1, bundle.EthPriceUSD))

	pool.TxCount++
	if inRange(pool, params.TickLower, params.TickUpper) {
		pool.Liquidity = new(big.Int).Sub(pool.Liquidity, params.Amount)
	}

	pool.TotalValueLockedToken0 = pool.TotalValueLockedToken0.Sub(amount0)
	pool.TotalValueLockedToken1 = pool.TotalValueLockedToken1.Sub(amount1)
	pool.TotalValueLockedETH = pool.TotalValueLockedToken0.Mul(token0.DerivedETH).
		Add(pool.TotalValueLockedToken1.Mul(token1.DerivedETH))
	pool.TotalValueLockedUSD = pool.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	factory.TotalValueLockedETH = factory.TotalValueLockedETH.Add(pool.TotalValueLockedETH)
	factory.TotalValueLockedUSD = factory.TotalValueLockedETH.Mul(bundle.EthPriceUSD)

	tx, err := e.loadTransaction(ctx, meta)
	if err != nil {
		return err
	}

	record := &domain.BurnRecord{
		ID:            domain.EventRecordID(tx.ID, meta.LogIndex),
		ChainID:       meta.ChainID,
		TransactionID: tx.ID,
		Timestamp:     tx.Timestamp,
		LogIndex:      meta.LogIndex,
		PoolID:        pool.ID,
		Token0ID:      pool.Token0ID,
		Token1ID:      pool.Token1ID,
		Owner:         params.Owner,
		Origin:        meta.TxFrom,
		Amount:        params.Amount,
		Amount0:       amount0,
		Amount1:       amount1,
		AmountUSD:     amountUSD,
		TickLower:     params.TickLower,
		TickUpper:     params.TickUpper,
	}

	if err := e.applyBurnToTicks(ctx, pool, params); err != nil {
		return err
	}

	if _, err := e.updateRollups(ctx, ent, meta); err != nil {
		return err
	}

	if err := e.stores.Tokens.Set(ctx, token0); err != nil {
		return err
	}
	if err := e.stores.Tokens.Set(ctx, token1); err != nil {
		return err
	}
	if err := e.stores.Pools.Set(ctx, pool); err != nil {
		return err
	}
	if err := e.stores.Factories.Set(ctx, factory); err != nil {
		return err
	}

	if err := e.stores.Burns.Insert(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			e.drop(meta, "duplicate_record")
			return nil
		}
		return err
	}
	return nil
}
