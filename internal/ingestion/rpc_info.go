package ingestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"univ3-pool-lab/internal/observability"
)

// RPCBlockInfoSource resolves block timestamps and transaction senders
// over JSON-RPC.
type RPCBlockInfoSource struct {
	client  *rpc.Client
	metrics *observability.Metrics
}

// NewRPCBlockInfoSource wraps an RPC client.
func NewRPCBlockInfoSource(client *rpc.Client, metrics *observability.Metrics) *RPCBlockInfoSource {
	if metrics == nil {
		metrics = observability.NewMetrics("")
	}
	return &RPCBlockInfoSource{client: client, metrics: metrics}
}

var _ BlockInfoSource = (*RPCBlockInfoSource)(nil)

// BlockTimestamp returns the unix timestamp of a block.
func (s *RPCBlockInfoSource) BlockTimestamp(ctx context.Context, blockNumber uint64) (int64, error) {
	start := time.Now()
	defer func() {
		s.metrics.RPCCallLatency.WithLabelValues("eth_getBlockByNumber").Observe(time.Since(start).Seconds())
	}()

	var header struct {
		Timestamp string `json:"timestamp"`
	}
	err := s.client.CallContext(ctx, &header, "eth_getBlockByNumber", fmt.Sprintf("0x%x", blockNumber), false)
	if err != nil {
		return 0, fmt.Errorf("eth_getBlockByNumber %d: %w", blockNumber, err)
	}
	if header.Timestamp == "" {
		return 0, fmt.Errorf("block %d not found", blockNumber)
	}
	ts, err := hexutil.DecodeUint64(header.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("block %d timestamp %q: %w", blockNumber, header.Timestamp, err)
	}
	return int64(ts), nil
}

// TransactionSender returns the from address of a transaction.
func (s *RPCBlockInfoSource) TransactionSender(ctx context.Context, txHash string) (string, error) {
	start := time.Now()
	defer func() {
		s.metrics.RPCCallLatency.WithLabelValues("eth_getTransactionByHash").Observe(time.Since(start).Seconds())
	}()

	var tx struct {
		From string `json:"from"`
	}
	err := s.client.CallContext(ctx, &tx, "eth_getTransactionByHash", txHash)
	if err != nil {
		return "", fmt.Errorf("eth_getTransactionByHash %s: %w", txHash, err)
	}
	if tx.From == "" {
		return "", fmt.Errorf("transaction %s not found", txHash)
	}
	return strings.ToLower(tx.From), nil
}
