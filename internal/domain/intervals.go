package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Bucket lengths in seconds.
const (
	DayBucketSeconds  = 86400
	HourBucketSeconds = 3600
)

// PoolDayData is the daily OHLC rollup for one pool.
// OHLC fields track the pool's token0 price.
type PoolDayData struct {
	ID      string // pool address + day index + chain
	ChainID uint64
	Date    int64 // bucket start timestamp
	PoolID  string

	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal

	Token0Price decimal.Decimal
	Token1Price decimal.Decimal

	Liquidity *big.Int
	SqrtPrice *big.Int
	Tick      *int32

	FeeGrowthGlobal0X128 *big.Int
	FeeGrowthGlobal1X128 *big.Int

	VolumeToken0 decimal.Decimal
	VolumeToken1 decimal.Decimal
	VolumeUSD    decimal.Decimal
	FeesUSD      decimal.Decimal
	TVLUSD       decimal.Decimal
	TxCount      int64
}

// PoolHourData is the hourly OHLC rollup for one pool.
type PoolHourData struct {
	ID              string // pool address + hour index + chain
	ChainID         uint64
	PeriodStartUnix int64
	PoolID          string

	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal

	Token0Price decimal.Decimal
	Token1Price decimal.Decimal

	Liquidity *big.Int
	SqrtPrice *big.Int
	Tick      *int32

	FeeGrowthGlobal0X128 *big.Int
	FeeGrowthGlobal1X128 *big.Int

	VolumeToken0 decimal.Decimal
	VolumeToken1 decimal.Decimal
	VolumeUSD    decimal.Decimal
	FeesUSD      decimal.Decimal
	TVLUSD       decimal.Decimal
	TxCount      int64
}

// TokenDayData is the daily OHLC rollup for one token, priced in USD.
type TokenDayData struct {
	ID      string // token address + day index + chain
	ChainID uint64
	Date    int64
	TokenID string

	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal

	PriceUSD decimal.Decimal

	Volume             decimal.Decimal
	VolumeUSD          decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	FeesUSD            decimal.Decimal

	TotalValueLocked    decimal.Decimal
	TotalValueLockedUSD decimal.Decimal
}

// TokenHourData is the hourly OHLC rollup for one token.
type TokenHourData struct {
	ID              string // token address + hour index + chain
	ChainID         uint64
	PeriodStartUnix int64
	TokenID         string

	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal

	PriceUSD decimal.Decimal

	Volume             decimal.Decimal
	VolumeUSD          decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	FeesUSD            decimal.Decimal

	TotalValueLocked    decimal.Decimal
	TotalValueLockedUSD decimal.Decimal
}

// ProtocolDayData is the protocol-wide daily rollup for one chain,
// sourced from the Factory aggregates. It carries no OHLC series.
type ProtocolDayData struct {
	ID      string // day index + chain
	ChainID uint64
	Date    int64

	VolumeETH          decimal.Decimal
	VolumeUSD          decimal.Decimal
	VolumeUSDUntracked decimal.Decimal
	FeesUSD            decimal.Decimal

	TVLUSD  decimal.Decimal
	TxCount int64
}
