package export

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/intervals"
	"univ3-pool-lab/internal/storage"
	"univ3-pool-lab/internal/storage/memory"
)

const (
	testPoolAddr  = "0x60594a405d53811d3bc4766596efd80fd545a270"
	testTimestamp = int64(1700003000)
)

type captureSink struct {
	events []*domain.Event
	err    error
}

func (s *captureSink) ProcessEvent(_ context.Context, ev *domain.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

type captureCandleStore struct {
	inserted []*domain.Candle
}

func (s *captureCandleStore) InsertBulk(_ context.Context, candles []*domain.Candle) error {
	s.inserted = append(s.inserted, candles...)
	return nil
}

func (s *captureCandleStore) GetByPool(_ context.Context, _ uint64, _, _ string) ([]*domain.Candle, error) {
	return s.inserted, nil
}

func (s *captureCandleStore) GetByTimeRange(_ context.Context, _ uint64, _, _ string, _, _ int64) ([]*domain.Candle, error) {
	return s.inserted, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func swapEvent() *domain.Event {
	return &domain.Event{
		Meta: domain.EventMeta{
			ChainID:   1,
			Address:   testPoolAddr,
			Timestamp: testTimestamp,
		},
		Kind: domain.EventSwap,
	}
}

func seedBuckets(t *testing.T, stores *storage.Stores) {
	t.Helper()
	ctx := context.Background()

	hourIdx := intervals.HourIndex(testTimestamp)
	err := stores.PoolHourData.Set(ctx, &domain.PoolHourData{
		ID:              domain.BucketID(testPoolAddr, hourIdx, 1),
		ChainID:         1,
		PeriodStartUnix: hourIdx * domain.HourBucketSeconds,
		PoolID:          domain.ScopedID(testPoolAddr, 1),
		Open:            decimal.NewFromInt(1500),
		High:            decimal.NewFromInt(1650),
		Low:             decimal.NewFromInt(1480),
		Close:           decimal.NewFromInt(1600),
		VolumeUSD:       decimal.NewFromInt(1600),
		TxCount:         4,
	})
	require.NoError(t, err)

	dayIdx := intervals.DayIndex(testTimestamp)
	err = stores.PoolDayData.Set(ctx, &domain.PoolDayData{
		ID:        domain.BucketID(testPoolAddr, dayIdx, 1),
		ChainID:   1,
		Date:      dayIdx * domain.DayBucketSeconds,
		PoolID:    domain.ScopedID(testPoolAddr, 1),
		Close:     decimal.NewFromInt(1600),
		VolumeUSD: decimal.NewFromInt(9800),
		TxCount:   31,
	})
	require.NoError(t, err)
}

func TestCandleSinkExportsTouchedBuckets(t *testing.T) {
	stores := memory.NewStores()
	seedBuckets(t, stores)

	inner := &captureSink{}
	candles := &captureCandleStore{}
	sink, err := NewCandleSink(CandleSinkOptions{
		Sink:    inner,
		Hours:   stores.PoolHourData,
		Days:    stores.PoolDayData,
		Candles: candles,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	require.NoError(t, sink.ProcessEvent(context.Background(), swapEvent()))

	require.Len(t, inner.events, 1)
	require.Len(t, candles.inserted, 2)

	hour := candles.inserted[0]
	require.Equal(t, domain.CandlePeriodHour, hour.Period)
	require.Equal(t, intervals.HourIndex(testTimestamp)*domain.HourBucketSeconds, hour.BucketStart)
	require.True(t, hour.Close.Equal(decimal.NewFromInt(1600)))
	require.True(t, hour.High.Equal(decimal.NewFromInt(1650)))
	require.Equal(t, int64(4), hour.TxCount)

	day := candles.inserted[1]
	require.Equal(t, domain.CandlePeriodDay, day.Period)
	require.True(t, day.VolumeUSD.Equal(decimal.NewFromInt(9800)))
	require.Equal(t, int64(31), day.TxCount)
}

func TestCandleSinkSkipsPoolCreated(t *testing.T) {
	stores := memory.NewStores()
	seedBuckets(t, stores)

	inner := &captureSink{}
	candles := &captureCandleStore{}
	sink, err := NewCandleSink(CandleSinkOptions{
		Sink:    inner,
		Hours:   stores.PoolHourData,
		Days:    stores.PoolDayData,
		Candles: candles,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	ev := swapEvent()
	ev.Kind = domain.EventPoolCreated
	require.NoError(t, sink.ProcessEvent(context.Background(), ev))

	require.Len(t, inner.events, 1)
	require.Empty(t, candles.inserted)
}

func TestCandleSinkNoBucketsNoExport(t *testing.T) {
	stores := memory.NewStores()

	inner := &captureSink{}
	candles := &captureCandleStore{}
	sink, err := NewCandleSink(CandleSinkOptions{
		Sink:    inner,
		Hours:   stores.PoolHourData,
		Days:    stores.PoolDayData,
		Candles: candles,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	require.NoError(t, sink.ProcessEvent(context.Background(), swapEvent()))
	require.Empty(t, candles.inserted)
}

func TestCandleSinkPropagatesLedgerError(t *testing.T) {
	stores := memory.NewStores()
	seedBuckets(t, stores)

	inner := &captureSink{err: context.DeadlineExceeded}
	candles := &captureCandleStore{}
	sink, err := NewCandleSink(CandleSinkOptions{
		Sink:    inner,
		Hours:   stores.PoolHourData,
		Days:    stores.PoolDayData,
		Candles: candles,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	require.ErrorIs(t, sink.ProcessEvent(context.Background(), swapEvent()), context.DeadlineExceeded)
	require.Empty(t, candles.inserted)
}

func TestCandleSinkRequiresStores(t *testing.T) {
	_, err := NewCandleSink(CandleSinkOptions{})
	require.Error(t, err)
}
