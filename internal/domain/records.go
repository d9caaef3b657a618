package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// SwapRecord is the immutable record of one on-chain Swap log.
// ID = transaction id + log index. Never mutated after creation.
type SwapRecord struct {
	ID            string
	ChainID       uint64
	TransactionID string
	Timestamp     int64
	LogIndex      uint32

	PoolID   string
	Token0ID string
	Token1ID string

	Sender    string
	Recipient string
	Origin    string

	Amount0   decimal.Decimal // signed token0 delta
	Amount1   decimal.Decimal // signed token1 delta
	AmountUSD decimal.Decimal // tracked USD volume

	SqrtPriceX96 *big.Int
	Tick         int32
}

// MintRecord is the immutable record of one Mint log.
type MintRecord struct {
	ID            string
	ChainID       uint64
	TransactionID string
	Timestamp     int64
	LogIndex      uint32

	PoolID   string
	Token0ID string
	Token1ID string

	Owner  string
	Sender string
	Origin string

	Amount    *big.Int // liquidity amount (uint128)
	Amount0   decimal.Decimal
	Amount1   decimal.Decimal
	AmountUSD decimal.Decimal

	TickLower int32
	TickUpper int32
}

// BurnRecord is the immutable record of one Burn log.
type BurnRecord struct {
	ID            string
	ChainID       uint64
	TransactionID string
	Timestamp     int64
	LogIndex      uint32

	PoolID   string
	Token0ID string
	Token1ID string

	Owner  string
	Origin string

	Amount    *big.Int
	Amount0   decimal.Decimal
	Amount1   decimal.Decimal
	AmountUSD decimal.Decimal

	TickLower int32
	TickUpper int32
}

// CollectRecord is the immutable record of one Collect log.
type CollectRecord struct {
	ID            string
	ChainID       uint64
	TransactionID string
	Timestamp     int64
	LogIndex      uint32

	PoolID string
	Owner  string

	Amount0   decimal.Decimal
	Amount1   decimal.Decimal
	AmountUSD decimal.Decimal

	TickLower int32
	TickUpper int32
}
