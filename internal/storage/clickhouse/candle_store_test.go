package clickhouse

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"univ3-pool-lab/internal/domain"
)

const candlePoolID = "0x60594a405d53811d3bc4766596efd80fd545a270-1"

func testCandle(bucketStart int64, period string) *domain.Candle {
	return &domain.Candle{
		ChainID:      1,
		PoolID:       candlePoolID,
		Period:       period,
		BucketStart:  bucketStart,
		Open:         decimal.NewFromInt(1500),
		High:         decimal.NewFromInt(1650),
		Low:          decimal.NewFromInt(1480),
		Close:        decimal.NewFromInt(1600),
		VolumeToken0: decimal.NewFromInt(2),
		VolumeToken1: decimal.NewFromInt(3200),
		VolumeUSD:    decimal.NewFromInt(1600),
		FeesUSD:      decimal.RequireFromString("4.8"),
		TVLUSD:       decimal.NewFromInt(32000),
		TxCount:      4,
	}
}

func TestCandleStore_InsertAndGetByPool(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCandleStore(conn)
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.Candle{
		testCandle(1700006400, domain.CandlePeriodHour),
		testCandle(1700003700, domain.CandlePeriodHour),
		testCandle(1699920000, domain.CandlePeriodDay),
	})
	require.NoError(t, err)

	hours, err := store.GetByPool(ctx, 1, candlePoolID, domain.CandlePeriodHour)
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, int64(1700003700), hours[0].BucketStart)
	assert.Equal(t, int64(1700006400), hours[1].BucketStart)
	assert.True(t, hours[0].Close.Equal(decimal.NewFromInt(1600)))
	assert.True(t, hours[0].FeesUSD.Equal(decimal.RequireFromString("4.8")))
	assert.Equal(t, int64(4), hours[0].TxCount)

	days, err := store.GetByPool(ctx, 1, candlePoolID, domain.CandlePeriodDay)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, domain.CandlePeriodDay, days[0].Period)
}

func TestCandleStore_ReinsertSupersedes(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCandleStore(conn)
	ctx := context.Background()

	first := testCandle(1700003700, domain.CandlePeriodHour)
	require.NoError(t, store.InsertBulk(ctx, []*domain.Candle{first}))

	second := testCandle(1700003700, domain.CandlePeriodHour)
	second.High = decimal.NewFromInt(1700)
	second.Close = decimal.NewFromInt(1700)
	second.TxCount = 5
	require.NoError(t, store.InsertBulk(ctx, []*domain.Candle{second}))

	candles, err := store.GetByPool(ctx, 1, candlePoolID, domain.CandlePeriodHour)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.True(t, candles[0].Close.Equal(decimal.NewFromInt(1700)))
	assert.Equal(t, int64(5), candles[0].TxCount)
}

func TestCandleStore_GetByTimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCandleStore(conn)
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.Candle{
		testCandle(1700000100, domain.CandlePeriodHour),
		testCandle(1700003700, domain.CandlePeriodHour),
		testCandle(1700007300, domain.CandlePeriodHour),
	})
	require.NoError(t, err)

	candles, err := store.GetByTimeRange(ctx, 1, candlePoolID, domain.CandlePeriodHour, 1700000100, 1700003700)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000100), candles[0].BucketStart)
	assert.Equal(t, int64(1700003700), candles[1].BucketStart)
}

func TestCandleStore_InsertEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCandleStore(conn)
	require.NoError(t, store.InsertBulk(context.Background(), nil))
}
