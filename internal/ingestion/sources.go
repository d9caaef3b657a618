// Package ingestion moves decoded events from external sources into the
// ledger engine. Each chain gets one runner and one writer goroutine;
// ordering within a chain is (block number ASC, log index ASC) and is
// enforced here so the engine can assume on-chain order.
package ingestion

import (
	"context"

	"univ3-pool-lab/internal/domain"
)

// EventSource delivers decoded events for one chain. Events may arrive
// slightly out of order; the Runner buffers and reorders them.
type EventSource interface {
	// Subscribe returns a channel of events. The channel is closed when
	// the context is cancelled or the source fails permanently.
	Subscribe(ctx context.Context) (<-chan *domain.Event, error)
}

// EventSink consumes ordered events. Satisfied by ledger.Engine.
type EventSink interface {
	ProcessEvent(ctx context.Context, ev *domain.Event) error
}

// BlockInfoSource resolves per-block and per-transaction fields that
// log subscriptions do not carry.
type BlockInfoSource interface {
	// BlockTimestamp returns the unix timestamp of a block.
	BlockTimestamp(ctx context.Context, blockNumber uint64) (int64, error)

	// TransactionSender returns the from address of a transaction.
	TransactionSender(ctx context.Context, txHash string) (string, error)
}
