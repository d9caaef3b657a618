package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/observability"
)

// Runner consumes one chain's event source and applies the events to
// the sink in on-chain order. Events are buffered per block and a block
// is applied once it trails the highest seen block by the lag window,
// which absorbs the slight reordering a log subscription can produce.
// There is exactly one writer goroutine per chain.
type Runner struct {
	chainID       uint64
	source        EventSource
	sink          EventSink
	blockLag      uint64
	flushInterval time.Duration
	log           *logrus.Entry
	metrics       *observability.Metrics

	buffer       map[uint64][]*domain.Event
	highestBlock uint64
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	ChainID uint64
	Source  EventSource
	Sink    EventSink

	// BlockLagWindow is how many blocks to buffer before applying.
	// Default 3.
	BlockLagWindow uint64

	// FlushInterval forces buffered blocks through when no new blocks
	// arrive. Default 5s.
	FlushInterval time.Duration

	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

// NewRunner validates options and builds a runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("ingestion: source is required")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("ingestion: sink is required")
	}

	blockLag := opts.BlockLagWindow
	if blockLag == 0 {
		blockLag = 3
	}
	flushInterval := opts.FlushInterval
	if flushInterval == 0 {
		flushInterval = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics("")
	}

	return &Runner{
		chainID:       opts.ChainID,
		source:        opts.Source,
		sink:          opts.Sink,
		blockLag:      blockLag,
		flushInterval: flushInterval,
		log:           logger.WithFields(logrus.Fields{"component": "runner", "chain": opts.ChainID}),
		metrics:       metrics,
		buffer:        make(map[uint64][]*domain.Event),
	}, nil
}

// Run subscribes and processes until the context is cancelled or the
// source channel closes. Remaining buffered blocks are flushed before
// returning.
func (r *Runner) Run(ctx context.Context) error {
	events, err := r.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe chain %d: %w", r.chainID, err)
	}
	r.log.Info("runner started")

	flush := time.NewTicker(r.flushInterval)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			r.flushAll(ctx)
			r.log.Info("runner stopping")
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				// Source drained: a finished replay file or a closed
				// subscription. Flush and report done.
				r.flushAll(ctx)
				r.log.Info("event source closed")
				return nil
			}
			r.bufferEvent(ctx, ev)

		case <-flush.C:
			r.processFinalizedBlocks(ctx)
		}
	}
}

func (r *Runner) bufferEvent(ctx context.Context, ev *domain.Event) {
	block := ev.Meta.BlockNumber
	r.buffer[block] = append(r.buffer[block], ev)

	if block > r.highestBlock {
		r.highestBlock = block
		r.processFinalizedBlocks(ctx)
	} else if block+r.blockLag <= r.highestBlock {
		// Late event for an already-finalized block: apply immediately
		// rather than waiting for the next flush.
		r.processBlock(ctx, block)
	}
}

// processFinalizedBlocks applies every buffered block at or below the
// finalization horizon, in ascending order.
func (r *Runner) processFinalizedBlocks(ctx context.Context) {
	if r.highestBlock < r.blockLag {
		return
	}
	finalized := r.highestBlock - r.blockLag

	var blocks []uint64
	for block := range r.buffer {
		if block <= finalized {
			blocks = append(blocks, block)
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })

	for _, block := range blocks {
		r.processBlock(ctx, block)
	}
	r.metrics.BufferedBlocks.WithLabelValues(strconv.FormatUint(r.chainID, 10)).Set(float64(len(r.buffer)))
}

// processBlock applies one block's events ordered by log index.
func (r *Runner) processBlock(ctx context.Context, block uint64) {
	events, ok := r.buffer[block]
	if !ok || len(events) == 0 {
		delete(r.buffer, block)
		return
	}
	SortEvents(events)

	for _, ev := range events {
		if err := r.sink.ProcessEvent(ctx, ev); err != nil {
			// Engine errors mean storage or RPC trouble; the event is
			// lost for this run and a backfill has to repair it.
			r.log.WithError(err).WithFields(logrus.Fields{
				"block": ev.Meta.BlockNumber,
				"kind":  ev.Kind,
			}).Error("event processing failed")
		}
	}
	delete(r.buffer, block)
}

// flushAll drains every buffered block regardless of the lag window.
// Used on shutdown and when the source is exhausted.
func (r *Runner) flushAll(ctx context.Context) {
	var blocks []uint64
	for block := range r.buffer {
		blocks = append(blocks, block)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })
	for _, block := range blocks {
		r.processBlock(ctx, block)
	}
}

// Manager runs one runner per chain and waits for all of them.
type Manager struct {
	runners []*Runner
	log     *logrus.Entry
}

// NewManager builds a manager over per-chain runners.
func NewManager(runners []*Runner, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{
		runners: runners,
		log:     logger.WithField("component", "ingestion"),
	}
}

// Run starts all runners and blocks until every one of them returns.
// The first non-cancellation error is returned.
func (m *Manager) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(m.runners))

	for _, runner := range m.runners {
		wg.Add(1)
		go func(r *Runner) {
			defer wg.Done()
			if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("chain %d: %w", r.chainID, err)
			}
		}(runner)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		return err
	}
	return nil
}
