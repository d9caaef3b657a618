package domain

import "github.com/shopspring/decimal"

// Factory holds protocol-wide aggregates for one chain.
// Created on the first PoolCreated event for that chain, never deleted.
type Factory struct {
	ID      string // factory address + chain
	Address string
	ChainID uint64

	PoolCount int64
	TxCount   int64

	TotalVolumeETH     decimal.Decimal
	TotalVolumeUSD     decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	TotalFeesETH       decimal.Decimal
	TotalFeesUSD       decimal.Decimal

	TotalValueLockedETH decimal.Decimal
	TotalValueLockedUSD decimal.Decimal

	Owner string
}

// Bundle holds the current native-asset USD price for one chain.
// Overwritten on every Initialize and Swap event.
type Bundle struct {
	ID          string // chain id
	ChainID     uint64
	EthPriceUSD decimal.Decimal
}
