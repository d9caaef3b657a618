package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Token is one ERC-20 token per (address, chain).
// Created lazily on first sighting in a PoolCreated event.
type Token struct {
	ID      string // token address + chain
	Address string
	ChainID uint64

	Symbol      string
	Name        string
	Decimals    int32
	TotalSupply *big.Int

	// DerivedETH is the token price in native-asset units, transitively
	// derived through whitelisted pools. Zero means "price unknown".
	DerivedETH decimal.Decimal

	Volume             decimal.Decimal
	VolumeUSD          decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	FeesUSD            decimal.Decimal

	TotalValueLocked    decimal.Decimal
	TotalValueLockedUSD decimal.Decimal

	TxCount   int64
	PoolCount int64

	// WhitelistPools is the append-only adjacency list of pool IDs where
	// this token is paired with a whitelisted counter-token. The price
	// oracle walks it in insertion order.
	WhitelistPools []string
}
