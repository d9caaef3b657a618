package ledger

import (
	"context"
	"errors"
	"math/big"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/pricemath"
	"univ3-pool-lab/internal/storage"
)

// newTick seeds a tick record with zero liquidity counters and its
// reference prices.
func newTick(id string, pool *domain.Pool, tickIdx int32, meta domain.EventMeta) *domain.Tick {
	price0 := pricemath.PriceAtTick(tickIdx)
	return &domain.Tick{
		ID:                   id,
		ChainID:              pool.ChainID,
		PoolID:               pool.ID,
		PoolAddress:          pool.Address,
		TickIdx:              tickIdx,
		CreatedAtTimestamp:   meta.Timestamp,
		CreatedAtBlockNumber: meta.BlockNumber,
		LiquidityGross:       big.NewInt(0),
		LiquidityNet:         big.NewInt(0),
		Price0:               price0,
		Price1:               pricemath.SafeDiv(one, price0).Round(18),
	}
}

// applyMintToTicks creates the boundary ticks on demand and credits the
// minted liquidity: both boundaries gain gross liquidity, the lower
// gains net liquidity and the upper loses it.
func (e *Engine) applyMintToTicks(ctx context.Context, pool *domain.Pool, params *domain.MintParams, meta domain.EventMeta) error {
	lowerID := domain.TickID(pool.Address, params.TickLower, pool.ChainID)
	upperID := domain.TickID(pool.Address, params.TickUpper, pool.ChainID)

	lower, err := e.stores.Ticks.Get(ctx, lowerID)
	if errors.Is(err, storage.ErrNotFound) {
		lower = newTick(lowerID, pool, params.TickLower, meta)
	} else if err != nil {
		return err
	}
	upper, err := e.stores.Ticks.Get(ctx, upperID)
	if errors.Is(err, storage.ErrNotFound) {
		upper = newTick(upperID, pool, params.TickUpper, meta)
	} else if err != nil {
		return err
	}

	lower.LiquidityGross = new(big.Int).Add(lower.LiquidityGross, params.Amount)
	lower.LiquidityNet = new(big.Int).Add(lower.LiquidityNet, params.Amount)
	upper.LiquidityGross = new(big.Int).Add(upper.LiquidityGross, params.Amount)
	upper.LiquidityNet = new(big.Int).Sub(upper.LiquidityNet, params.Amount)

	if err := e.stores.Ticks.Set(ctx, lower); err != nil {
		return err
	}
	return e.stores.Ticks.Set(ctx, upper)
}

// applyBurnToTicks debits burned liquidity from the boundary ticks.
// The update only applies when both ticks already exist; a missing
// boundary does not abort the rest of the burn.
func (e *Engine) applyBurnToTicks(ctx context.Context, pool *domain.Pool, params *domain.BurnParams) error {
	lowerID := domain.TickID(pool.Address, params.TickLower, pool.ChainID)
	upperID := domain.TickID(pool.Address, params.TickUpper, pool.ChainID)

	lower, err := e.stores.Ticks.Get(ctx, lowerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	upper, err := e.stores.Ticks.Get(ctx, upperID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	lower.LiquidityGross = new(big.Int).Sub(lower.LiquidityGross, params.Amount)
	lower.LiquidityNet = new(big.Int).Sub(lower.LiquidityNet, params.Amount)
	upper.LiquidityGross = new(big.Int).Sub(upper.LiquidityGross, params.Amount)
	upper.LiquidityNet = new(big.Int).Add(upper.LiquidityNet, params.Amount)

	if err := e.stores.Ticks.Set(ctx, lower); err != nil {
		return err
	}
	return e.stores.Ticks.Set(ctx, upper)
}
