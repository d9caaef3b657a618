package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Tick is one tick record per (pool, tick index, chain). Created lazily
// on the first mint that references the index and never deleted; the
// liquidity counters may return to zero but the record persists.
type Tick struct {
	ID      string // pool address # tick idx + chain
	ChainID uint64

	PoolID      string
	PoolAddress string
	TickIdx     int32

	CreatedAtTimestamp   int64
	CreatedAtBlockNumber uint64

	// LiquidityGross and LiquidityNet are uint128/int128 counters kept in
	// raw protocol units.
	LiquidityGross *big.Int
	LiquidityNet   *big.Int

	// Price0 is 1.0001^tickIdx (token1 per token0), Price1 its inverse.
	// Display-grade fields, not used by the TVL or liquidity invariants.
	Price0 decimal.Decimal
	Price1 decimal.Decimal
}
