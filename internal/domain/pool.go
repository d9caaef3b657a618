package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Pool is one liquidity pool per (address, chain).
// Tick and SqrtPrice stay unset until the Initialize event.
type Pool struct {
	ID      string // pool address + chain
	Address string
	ChainID uint64

	Token0ID string
	Token1ID string
	FeeTier  int64 // hundredths of a basis point (e.g. 3000 = 0.3%)

	CreatedAtTimestamp   int64
	CreatedAtBlockNumber uint64

	// Liquidity is the in-range liquidity at the current tick (uint128).
	Liquidity *big.Int

	// SqrtPrice is the Q96 fixed-point sqrt(token1/token0) price.
	SqrtPrice *big.Int

	// Tick is nil until the pool has been initialized.
	Tick *int32

	Token0Price decimal.Decimal
	Token1Price decimal.Decimal

	VolumeToken0       decimal.Decimal
	VolumeToken1       decimal.Decimal
	VolumeUSD          decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	FeesUSD            decimal.Decimal
	TxCount            int64

	CollectedFeesToken0 decimal.Decimal
	CollectedFeesToken1 decimal.Decimal
	CollectedFeesUSD    decimal.Decimal

	TotalValueLockedToken0 decimal.Decimal
	TotalValueLockedToken1 decimal.Decimal
	TotalValueLockedETH    decimal.Decimal
	TotalValueLockedUSD    decimal.Decimal

	// Fee growth accumulators (X128 fixed point), populated only when a
	// fee-growth backfill collaborator is configured.
	FeeGrowthGlobal0X128 *big.Int
	FeeGrowthGlobal1X128 *big.Int
}

// Initialized reports whether the pool has received its Initialize event.
func (p *Pool) Initialized() bool {
	return p.Tick != nil
}
