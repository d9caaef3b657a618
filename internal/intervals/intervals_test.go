package intervals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"univ3-pool-lab/internal/domain"
)

func testPool(price string) *domain.Pool {
	return &domain.Pool{
		ID:                  "0xpool-1",
		Address:             "0xpool",
		ChainID:             1,
		Token0Price:         decimal.RequireFromString(price),
		Token1Price:         decimal.New(1, 0).DivRound(decimal.RequireFromString(price), 34),
		TotalValueLockedUSD: decimal.RequireFromString("1000"),
	}
}

func TestBucketIndexes(t *testing.T) {
	// 2021-05-05 00:00:10 UTC
	ts := int64(1620172810)
	require.Equal(t, ts/86400, DayIndex(ts))
	require.Equal(t, ts/3600, HourIndex(ts))
	require.Equal(t, int64(0), DayIndex(100))
}

func TestUpdatePoolHourData_NewBucket(t *testing.T) {
	ts := int64(1700000000)
	pool := testPool("1.5")

	d := UpdatePoolHourData(nil, pool, ts)

	require.Equal(t, domain.BucketID("0xpool", HourIndex(ts), 1), d.ID)
	require.Equal(t, HourIndex(ts)*domain.HourBucketSeconds, d.PeriodStartUnix)
	require.True(t, d.Open.Equal(pool.Token0Price))
	require.True(t, d.High.Equal(pool.Token0Price))
	require.True(t, d.Low.Equal(pool.Token0Price))
	require.True(t, d.Close.Equal(pool.Token0Price))
	require.Equal(t, int64(1), d.TxCount)
}

func TestUpdatePoolHourData_TwoEventsSameHour(t *testing.T) {
	ts := int64(1700000000)

	d := UpdatePoolHourData(nil, testPool("1.5"), ts)
	d = UpdatePoolHourData(d, testPool("1.8"), ts+60)

	require.True(t, d.Open.Equal(decimal.RequireFromString("1.5")))
	require.True(t, d.High.Equal(decimal.RequireFromString("1.8")))
	require.True(t, d.Low.Equal(decimal.RequireFromString("1.5")))
	require.True(t, d.Close.Equal(decimal.RequireFromString("1.8")))
	require.Equal(t, int64(2), d.TxCount)

	// A lower price moves Low and Close but not Open or High.
	d = UpdatePoolHourData(d, testPool("1.2"), ts+120)
	require.True(t, d.Open.Equal(decimal.RequireFromString("1.5")))
	require.True(t, d.High.Equal(decimal.RequireFromString("1.8")))
	require.True(t, d.Low.Equal(decimal.RequireFromString("1.2")))
	require.True(t, d.Close.Equal(decimal.RequireFromString("1.2")))
}

func TestUpdatePoolHourData_BucketBoundary(t *testing.T) {
	// Aligned to an hour start so the next event lands in a fresh bucket.
	ts := int64(1700000000) / 3600 * 3600

	first := UpdatePoolHourData(nil, testPool("1.5"), ts)
	second := UpdatePoolHourData(nil, testPool("1.8"), ts+domain.HourBucketSeconds)

	require.NotEqual(t, first.ID, second.ID)
	require.True(t, second.Open.Equal(decimal.RequireFromString("1.8")))
	require.Equal(t, int64(1), second.TxCount)
}

func TestUpdatePoolDayData_OHLCInvariant(t *testing.T) {
	ts := int64(1700000000)
	prices := []string{"1.5", "2.1", "0.9", "1.7"}

	var d *domain.PoolDayData
	for i, p := range prices {
		d = UpdatePoolDayData(d, testPool(p), ts+int64(i))
	}

	require.True(t, d.Low.LessThanOrEqual(d.Open))
	require.True(t, d.Low.LessThanOrEqual(d.Close))
	require.True(t, d.High.GreaterThanOrEqual(d.Open))
	require.True(t, d.High.GreaterThanOrEqual(d.Close))
	require.True(t, d.Open.Equal(decimal.RequireFromString("1.5")))
	require.True(t, d.High.Equal(decimal.RequireFromString("2.1")))
	require.True(t, d.Low.Equal(decimal.RequireFromString("0.9")))
	require.True(t, d.Close.Equal(decimal.RequireFromString("1.7")))
	require.Equal(t, int64(4), d.TxCount)
}

func TestUpdateTokenHourData(t *testing.T) {
	ts := int64(1700000000)
	token := &domain.Token{
		ID:                  "0xtoken-1",
		Address:             "0xtoken",
		ChainID:             1,
		TotalValueLocked:    decimal.RequireFromString("50"),
		TotalValueLockedUSD: decimal.RequireFromString("100000"),
	}

	d := UpdateTokenHourData(nil, token, decimal.RequireFromString("2000"), ts)
	d = UpdateTokenHourData(d, token, decimal.RequireFromString("1900"), ts+30)

	require.True(t, d.Open.Equal(decimal.RequireFromString("2000")))
	require.True(t, d.Low.Equal(decimal.RequireFromString("1900")))
	require.True(t, d.Close.Equal(decimal.RequireFromString("1900")))
	require.True(t, d.PriceUSD.Equal(decimal.RequireFromString("1900")))
	require.True(t, d.TotalValueLocked.Equal(token.TotalValueLocked))
}

func TestUpdateProtocolDayData(t *testing.T) {
	ts := int64(1700000000)
	factory := &domain.Factory{
		ID:                  "0xfactory-1",
		TxCount:             42,
		TotalValueLockedUSD: decimal.RequireFromString("9000000"),
	}

	d := UpdateProtocolDayData(nil, factory, 1, ts)

	require.Equal(t, domain.ProtocolDayID(DayIndex(ts), 1), d.ID)
	require.Equal(t, int64(42), d.TxCount)
	require.True(t, d.TVLUSD.Equal(factory.TotalValueLockedUSD))

	factory.TxCount = 43
	d = UpdateProtocolDayData(d, factory, 1, ts+10)
	require.Equal(t, int64(43), d.TxCount)
}
