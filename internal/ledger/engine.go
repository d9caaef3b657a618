// Package ledger is the incremental aggregate engine. It consumes
// decoded pool and factory events in on-chain order and maintains the
// factory, bundle, token, pool, tick and transaction entities together
// with their hourly and daily rollups. Events for one chain must be
// processed sequentially; different chains may proceed in parallel.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/feegrowth"
	"univ3-pool-lab/internal/observability"
	"univ3-pool-lab/internal/storage"
	"univ3-pool-lab/internal/tokenmeta"
)

const addressZero = "0x0000000000000000000000000000000000000000"

// swapSkipPools are pools with known-broken pricing whose swaps are
// ignored entirely.
var swapSkipPools = map[string]bool{
	"0x9663f2ca0454accad3e094448ea6f77443880454": true,
}

var one = decimal.New(1, 0)

// Options configures an Engine. Stores and Registry are required; the
// rest default to working no-op or local instances.
type Options struct {
	Stores   *storage.Stores
	Registry *chains.Registry

	// Metadata maps chain ID to a token metadata resolver. Chains
	// without one fall back to the config's static overrides only.
	Metadata map[uint64]tokenmeta.Resolver

	// FeeGrowth maps chain ID to an optional fee-growth accumulator
	// source, consulted on the first event of each hour bucket.
	FeeGrowth map[uint64]feegrowth.Source

	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

// Engine applies events to the aggregate ledger.
type Engine struct {
	stores    *storage.Stores
	registry  *chains.Registry
	metadata  map[uint64]tokenmeta.Resolver
	feeGrowth map[uint64]feegrowth.Source
	log       *logrus.Entry
	metrics   *observability.Metrics
}

// NewEngine validates options and builds an engine.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Stores == nil {
		return nil, fmt.Errorf("ledger: stores are required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("ledger: chain registry is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics("")
	}

	metadata := make(map[uint64]tokenmeta.Resolver)
	for _, chainID := range opts.Registry.ChainIDs() {
		if r, ok := opts.Metadata[chainID]; ok && r != nil {
			metadata[chainID] = r
			continue
		}
		metadata[chainID] = tokenmeta.NewStaticResolver(opts.Registry.Get(chainID), nil)
	}

	feeGrowthSources := make(map[uint64]feegrowth.Source)
	for chainID, src := range opts.FeeGrowth {
		if src != nil {
			feeGrowthSources[chainID] = src
		}
	}

	return &Engine{
		stores:    opts.Stores,
		registry:  opts.Registry,
		metadata:  metadata,
		feeGrowth: feeGrowthSources,
		log:       logger.WithField("component", "ledger"),
		metrics:   metrics,
	}, nil
}

// ProcessEvent applies one event to the ledger. A nil return means the
// event was either fully applied or intentionally dropped; errors are
// reserved for storage and RPC failures where retrying makes sense.
func (e *Engine) ProcessEvent(ctx context.Context, ev *domain.Event) error {
	chainLabel := strconv.FormatUint(ev.Meta.ChainID, 10)

	cfg := e.registry.Get(ev.Meta.ChainID)
	if cfg == nil {
		e.log.WithField("chain", ev.Meta.ChainID).Warn("event for unconfigured chain")
		e.metrics.EventsDropped.WithLabelValues(chainLabel, "unknown_chain").Inc()
		return nil
	}

	start := time.Now()
	var err error
	switch ev.Kind {
	case domain.EventPoolCreated:
		err = e.handlePoolCreated(ctx, cfg, ev)
	case domain.EventInitialize:
		err = e.handleInitialize(ctx, cfg, ev)
	case domain.EventMint:
		err = e.handleMint(ctx, cfg, ev)
	case domain.EventBurn:
		err = e.handleBurn(ctx, cfg, ev)
	case domain.EventSwap:
		err = e.handleSwap(ctx, cfg, ev)
	case domain.EventCollect:
		err = e.handleCollect(ctx, cfg, ev)
	default:
		e.log.WithFields(logrus.Fields{
			"chain": ev.Meta.ChainID,
			"kind":  ev.Kind,
		}).Warn("unknown event kind")
		e.metrics.EventsDropped.WithLabelValues(chainLabel, "unknown_kind").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s event at block %d: %w", ev.Kind, ev.Meta.BlockNumber, err)
	}

	e.metrics.EventsProcessed.WithLabelValues(chainLabel, string(ev.Kind)).Inc()
	e.metrics.EventProcessingLatency.WithLabelValues(string(ev.Kind)).Observe(time.Since(start).Seconds())
	e.metrics.LastProcessedBlock.WithLabelValues(chainLabel).Set(float64(ev.Meta.BlockNumber))
	e.metrics.LastProcessedTimestamp.WithLabelValues(chainLabel).Set(float64(ev.Meta.Timestamp))
	return nil
}

// drop logs and counts an intentionally dropped event.
func (e *Engine) drop(meta domain.EventMeta, reason string) {
	e.log.WithFields(logrus.Fields{
		"chain":   meta.ChainID,
		"address": meta.Address,
		"block":   meta.BlockNumber,
		"reason":  reason,
	}).Warn("event dropped")
	e.metrics.EventsDropped.WithLabelValues(strconv.FormatUint(meta.ChainID, 10), reason).Inc()
}

// loadTransaction upserts the transaction record for an event. Every
// event of the same transaction rewrites the same fields, so replays
// are harmless.
func (e *Engine) loadTransaction(ctx context.Context, meta domain.EventMeta) (*domain.Transaction, error) {
	id := domain.ScopedID(meta.TxHash, meta.ChainID)

	tx, err := e.stores.Transactions.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		tx = &domain.Transaction{
			ID:      id,
			Hash:    strings.ToLower(meta.TxHash),
			ChainID: meta.ChainID,
		}
	} else if err != nil {
		return nil, err
	}

	tx.BlockNumber = meta.BlockNumber
	tx.Timestamp = meta.Timestamp
	if err := e.stores.Transactions.Set(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// loadPoolEntities resolves the bundle, pool, factory and both tokens
// for a pool-scoped event. Any missing entity returns nil pointers and
// the drop reason.
func (e *Engine) loadPoolEntities(ctx context.Context, cfg *chains.Config, meta domain.EventMeta) (*poolEntities, string, error) {
	bundle, err := e.stores.Bundles.Get(ctx, domain.BundleID(meta.ChainID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "missing_bundle", nil
	}
	if err != nil {
		return nil, "", err
	}

	pool, err := e.stores.Pools.Get(ctx, domain.ScopedID(meta.Address, meta.ChainID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "missing_pool", nil
	}
	if err != nil {
		return nil, "", err
	}

	factory, err := e.stores.Factories.Get(ctx, domain.ScopedID(cfg.FactoryAddress, meta.ChainID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "missing_factory", nil
	}
	if err != nil {
		return nil, "", err
	}

	token0, err := e.stores.Tokens.Get(ctx, pool.Token0ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "missing_token", nil
	}
	if err != nil {
		return nil, "", err
	}
	token1, err := e.stores.Tokens.Get(ctx, pool.Token1ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "missing_token", nil
	}
	if err != nil {
		return nil, "", err
	}

	return &poolEntities{
		bundle:  bundle,
		pool:    pool,
		factory: factory,
		token0:  token0,
		token1:  token1,
	}, "", nil
}

type poolEntities struct {
	bundle  *domain.Bundle
	pool    *domain.Pool
	factory *domain.Factory
	token0  *domain.Token
	token1  *domain.Token
}

// tokenPriceUSD is the token's USD price through the native bundle.
func tokenPriceUSD(token *domain.Token, ethPriceUSD decimal.Decimal) decimal.Decimal {
	return token.DerivedETH.Mul(ethPriceUSD)
}

// inRange reports whether the position [tickLower, tickUpper) covers
// the pool's current tick.
func inRange(pool *domain.Pool, tickLower, tickUpper int32) bool {
	return pool.Initialized() && tickLower <= *pool.Tick && tickUpper > *pool.Tick
}
