// Package export mirrors finished ledger rollups into the analytics
// store. The candle sink decorates the ledger so every applied pool
// event re-exports the hour and day buckets it touched.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/ingestion"
	"univ3-pool-lab/internal/intervals"
	"univ3-pool-lab/internal/storage"
)

// CandleSink forwards events to the ledger and exports the touched pool
// OHLC buckets to the candle store. Export failures are logged, not
// returned: the ledger stays the source of truth and a re-export of the
// same bucket supersedes any partial state.
type CandleSink struct {
	sink    ingestion.EventSink
	hours   storage.PoolHourDataStore
	days    storage.PoolDayDataStore
	candles storage.CandleStore
	log     *logrus.Logger
}

// CandleSinkOptions configures a CandleSink.
type CandleSinkOptions struct {
	Sink    ingestion.EventSink
	Hours   storage.PoolHourDataStore
	Days    storage.PoolDayDataStore
	Candles storage.CandleStore
	Logger  *logrus.Logger
}

// NewCandleSink creates a CandleSink.
func NewCandleSink(opts CandleSinkOptions) (*CandleSink, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("candle sink requires an inner sink")
	}
	if opts.Hours == nil || opts.Days == nil || opts.Candles == nil {
		return nil, fmt.Errorf("candle sink requires rollup and candle stores")
	}
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	return &CandleSink{
		sink:    opts.Sink,
		hours:   opts.Hours,
		days:    opts.Days,
		candles: opts.Candles,
		log:     log,
	}, nil
}

// Compile-time interface check.
var _ ingestion.EventSink = (*CandleSink)(nil)

// ProcessEvent applies the event through the inner sink, then exports
// the pool's hour and day candles for the event's timestamp.
func (s *CandleSink) ProcessEvent(ctx context.Context, ev *domain.Event) error {
	if err := s.sink.ProcessEvent(ctx, ev); err != nil {
		return err
	}

	// Only pool-emitted events move a pool's rollups. PoolCreated is
	// emitted by the factory and opens no bucket.
	if ev == nil || ev.Kind == domain.EventPoolCreated {
		return nil
	}

	if err := s.exportBuckets(ctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"chain_id": ev.Meta.ChainID,
			"pool":     ev.Meta.Address,
		}).Warn("candle export failed")
	}
	return nil
}

func (s *CandleSink) exportBuckets(ctx context.Context, ev *domain.Event) error {
	var candles []*domain.Candle

	hourID := domain.BucketID(ev.Meta.Address, intervals.HourIndex(ev.Meta.Timestamp), ev.Meta.ChainID)
	hour, err := s.hours.Get(ctx, hourID)
	switch {
	case err == nil:
		candles = append(candles, domain.CandleFromPoolHour(hour))
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("load hour bucket: %w", err)
	}

	dayID := domain.BucketID(ev.Meta.Address, intervals.DayIndex(ev.Meta.Timestamp), ev.Meta.ChainID)
	day, err := s.days.Get(ctx, dayID)
	switch {
	case err == nil:
		candles = append(candles, domain.CandleFromPoolDay(day))
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("load day bucket: %w", err)
	}

	if len(candles) == 0 {
		// The ledger dropped the event (unknown pool or chain).
		return nil
	}
	if err := s.candles.InsertBulk(ctx, candles); err != nil {
		return fmt.Errorf("insert candles: %w", err)
	}
	return nil
}
