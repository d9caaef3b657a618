package postgres

import (
	"context"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

func TestPoolHourDataStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPoolHourDataStore(pool)
	ctx := context.Background()

	poolAddr := "0x60594a405d53811d3bc4766596efd80fd545a270"
	hourIdx := int64(1700003000) / domain.HourBucketSeconds
	d := &domain.PoolHourData{
		ID:              domain.BucketID(poolAddr, hourIdx, 1),
		ChainID:         1,
		PeriodStartUnix: hourIdx * domain.HourBucketSeconds,
		PoolID:          domain.ScopedID(poolAddr, 1),
		Open:            decimal.NewFromInt(1500),
		High:            decimal.NewFromInt(1650),
		Low:             decimal.NewFromInt(1480),
		Close:           decimal.NewFromInt(1600),
		Token0Price:     decimal.NewFromInt(1600),
		Token1Price:     decimal.RequireFromString("0.000625"),
		Liquidity:       big.NewInt(1000),
		SqrtPrice:       new(big.Int).Lsh(big.NewInt(40), 96),
		Tick:            ptr(int32(0)),
		VolumeToken0:    decimal.NewFromInt(2),
		VolumeToken1:    decimal.NewFromInt(3200),
		VolumeUSD:       decimal.NewFromInt(1600),
		FeesUSD:         decimal.RequireFromString("4.8"),
		TVLUSD:          decimal.NewFromInt(32000),
		TxCount:         4,
	}
	require.NoError(t, store.Set(ctx, d))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)

	assert.Equal(t, d.PeriodStartUnix, got.PeriodStartUnix)
	assert.True(t, got.Open.Equal(decimal.NewFromInt(1500)))
	assert.True(t, got.Close.Equal(decimal.NewFromInt(1600)))
	assert.True(t, got.Token1Price.Equal(decimal.RequireFromString("0.000625")))
	assert.Equal(t, 0, got.SqrtPrice.Cmp(d.SqrtPrice))
	require.NotNil(t, got.Tick)
	assert.Equal(t, int32(0), *got.Tick)
	assert.Nil(t, got.FeeGrowthGlobal0X128)
	assert.True(t, got.FeesUSD.Equal(decimal.RequireFromString("4.8")))
	assert.Equal(t, int64(4), got.TxCount)

	// Later events in the same bucket extend the candle.
	d.High = decimal.NewFromInt(1700)
	d.Close = decimal.NewFromInt(1700)
	d.TxCount = 5
	require.NoError(t, store.Set(ctx, d))

	got, err = store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.High.Equal(decimal.NewFromInt(1700)))
	assert.Equal(t, int64(5), got.TxCount)
}

func TestPoolDayDataStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPoolDayDataStore(pool)
	ctx := context.Background()

	poolAddr := "0x60594a405d53811d3bc4766596efd80fd545a270"
	dayIdx := int64(1700003000) / domain.DayBucketSeconds
	d := &domain.PoolDayData{
		ID:                   domain.BucketID(poolAddr, dayIdx, 1),
		ChainID:              1,
		Date:                 dayIdx * domain.DayBucketSeconds,
		PoolID:               domain.ScopedID(poolAddr, 1),
		Open:                 decimal.NewFromInt(1500),
		High:                 decimal.NewFromInt(1650),
		Low:                  decimal.NewFromInt(1480),
		Close:                decimal.NewFromInt(1600),
		Liquidity:            big.NewInt(1000),
		SqrtPrice:            big.NewInt(1),
		FeeGrowthGlobal0X128: big.NewInt(555),
		VolumeUSD:            decimal.NewFromInt(9800),
		TVLUSD:               decimal.NewFromInt(32000),
		TxCount:              31,
	}
	require.NoError(t, store.Set(ctx, d))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Date, got.Date)
	assert.True(t, got.VolumeUSD.Equal(decimal.NewFromInt(9800)))
	require.NotNil(t, got.FeeGrowthGlobal0X128)
	assert.Equal(t, int64(555), got.FeeGrowthGlobal0X128.Int64())
	assert.Nil(t, got.FeeGrowthGlobal1X128)
	assert.Nil(t, got.Tick)
}

func TestTokenHourDataStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTokenHourDataStore(pool)
	ctx := context.Background()

	tokenAddr := "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	hourIdx := int64(1700003000) / domain.HourBucketSeconds
	d := &domain.TokenHourData{
		ID:                  domain.BucketID(tokenAddr, hourIdx, 1),
		ChainID:             1,
		PeriodStartUnix:     hourIdx * domain.HourBucketSeconds,
		TokenID:             domain.ScopedID(tokenAddr, 1),
		Open:                decimal.NewFromInt(1500),
		High:                decimal.NewFromInt(1650),
		Low:                 decimal.NewFromInt(1480),
		Close:               decimal.NewFromInt(1600),
		PriceUSD:            decimal.NewFromInt(1600),
		Volume:              decimal.NewFromInt(2),
		VolumeUSD:           decimal.NewFromInt(1600),
		FeesUSD:             decimal.RequireFromString("4.8"),
		TotalValueLocked:    decimal.NewFromInt(12),
		TotalValueLockedUSD: decimal.NewFromInt(19200),
	}
	require.NoError(t, store.Set(ctx, d))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.PriceUSD.Equal(decimal.NewFromInt(1600)))
	assert.True(t, got.Volume.Equal(decimal.NewFromInt(2)))
	assert.True(t, got.TotalValueLockedUSD.Equal(decimal.NewFromInt(19200)))
}

func TestTokenDayDataStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTokenDayDataStore(pool)
	_, err := store.Get(context.Background(), "missing-0-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProtocolDayDataStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProtocolDayDataStore(pool)
	ctx := context.Background()

	dayIdx := int64(1700003000) / domain.DayBucketSeconds
	d := &domain.ProtocolDayData{
		ID:        domain.ProtocolDayID(dayIdx, 1),
		ChainID:   1,
		Date:      dayIdx * domain.DayBucketSeconds,
		VolumeETH: decimal.NewFromInt(1),
		VolumeUSD: decimal.NewFromInt(1600),
		FeesUSD:   decimal.RequireFromString("4.8"),
		TVLUSD:    decimal.NewFromInt(32000),
		TxCount:   3,
	}
	require.NoError(t, store.Set(ctx, d))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.VolumeETH.Equal(decimal.NewFromInt(1)))
	assert.True(t, got.VolumeUSD.Equal(decimal.NewFromInt(1600)))
	assert.Equal(t, int64(3), got.TxCount)

	d.TxCount = 4
	require.NoError(t, store.Set(ctx, d))
	got, err = store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.TxCount)
}
