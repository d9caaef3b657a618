package domain

import "math/big"

// EventKind identifies a decoded pool or factory event.
type EventKind string

// Event kinds delivered by the event source.
const (
	EventPoolCreated EventKind = "PoolCreated"
	EventInitialize  EventKind = "Initialize"
	EventMint        EventKind = "Mint"
	EventBurn        EventKind = "Burn"
	EventSwap        EventKind = "Swap"
	EventCollect     EventKind = "Collect"
)

// EventMeta carries the fields common to every decoded log.
type EventMeta struct {
	ChainID     uint64
	Address     string // emitting contract (factory or pool)
	BlockNumber uint64
	Timestamp   int64
	TxHash      string
	TxFrom      string // transaction sender
	LogIndex    uint32
}

// Event is one decoded log. Exactly one of the typed payloads is set,
// matching Kind.
type Event struct {
	Meta EventMeta
	Kind EventKind

	PoolCreated *PoolCreatedParams
	Initialize  *InitializeParams
	Mint        *MintParams
	Burn        *BurnParams
	Swap        *SwapParams
	Collect     *CollectParams
}

// PoolCreatedParams are the decoded PoolCreated parameters.
type PoolCreatedParams struct {
	Token0 string
	Token1 string
	Fee    int64
	Pool   string
}

// InitializeParams are the decoded Initialize parameters.
type InitializeParams struct {
	SqrtPriceX96 *big.Int
	Tick         int32
}

// MintParams are the decoded Mint parameters.
type MintParams struct {
	Sender    string
	Owner     string
	TickLower int32
	TickUpper int32
	Amount    *big.Int // liquidity (uint128)
	Amount0   *big.Int
	Amount1   *big.Int
}

// BurnParams are the decoded Burn parameters.
type BurnParams struct {
	Owner     string
	TickLower int32
	TickUpper int32
	Amount    *big.Int
	Amount0   *big.Int
	Amount1   *big.Int
}

// SwapParams are the decoded Swap parameters. Amount0 and Amount1 are
// signed deltas from the pool's point of view.
type SwapParams struct {
	Sender       string
	Recipient    string
	Amount0      *big.Int
	Amount1      *big.Int
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Tick         int32
}

// CollectParams are the decoded Collect parameters.
type CollectParams struct {
	Owner     string
	Recipient string
	TickLower int32
	TickUpper int32
	Amount0   *big.Int
	Amount1   *big.Int
}
