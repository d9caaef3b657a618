// Package intervals maintains the hourly and daily rollup records fed
// by every processed event. All update functions are pure: they take
// the previous bucket (nil when the bucket is new) and the current
// entity state, and return the updated bucket. Buckets are addressed
// by integer division of the event timestamp, so records only exist
// for periods that saw at least one event.
//
// OHLC semantics: Open is fixed by the first event of the bucket; High
// and Low are the running extremes; Close tracks the latest observed
// price, so mid-bucket reads are already correct. Volume and fee flows
// are accumulated separately by the swap handler.
package intervals

import (
	"github.com/shopspring/decimal"

	"univ3-pool-lab/internal/domain"
)

// DayIndex returns the day bucket index of a unix timestamp.
func DayIndex(timestamp int64) int64 {
	return timestamp / domain.DayBucketSeconds
}

// HourIndex returns the hour bucket index of a unix timestamp.
func HourIndex(timestamp int64) int64 {
	return timestamp / domain.HourBucketSeconds
}

// UpdatePoolDayData folds the pool's current state into its daily
// bucket. OHLC fields track the pool's token0 price.
func UpdatePoolDayData(prev *domain.PoolDayData, pool *domain.Pool, timestamp int64) *domain.PoolDayData {
	dayIndex := DayIndex(timestamp)

	d := prev
	if d == nil {
		d = &domain.PoolDayData{
			ID:      domain.BucketID(pool.Address, dayIndex, pool.ChainID),
			ChainID: pool.ChainID,
			Date:    dayIndex * domain.DayBucketSeconds,
			PoolID:  pool.ID,
			Open:    pool.Token0Price,
			High:    pool.Token0Price,
			Low:     pool.Token0Price,
		}
	}

	if pool.Token0Price.GreaterThan(d.High) {
		d.High = pool.Token0Price
	}
	if pool.Token0Price.LessThan(d.Low) {
		d.Low = pool.Token0Price
	}
	d.Close = pool.Token0Price

	d.Token0Price = pool.Token0Price
	d.Token1Price = pool.Token1Price
	d.Liquidity = pool.Liquidity
	d.SqrtPrice = pool.SqrtPrice
	d.Tick = pool.Tick
	d.FeeGrowthGlobal0X128 = pool.FeeGrowthGlobal0X128
	d.FeeGrowthGlobal1X128 = pool.FeeGrowthGlobal1X128
	d.TVLUSD = pool.TotalValueLockedUSD
	d.TxCount++

	return d
}

// UpdatePoolHourData folds the pool's current state into its hourly bucket.
func UpdatePoolHourData(prev *domain.PoolHourData, pool *domain.Pool, timestamp int64) *domain.PoolHourData {
	hourIndex := HourIndex(timestamp)

	d := prev
	if d == nil {
		d = &domain.PoolHourData{
			ID:              domain.BucketID(pool.Address, hourIndex, pool.ChainID),
			ChainID:         pool.ChainID,
			PeriodStartUnix: hourIndex * domain.HourBucketSeconds,
			PoolID:          pool.ID,
			Open:            pool.Token0Price,
			High:            pool.Token0Price,
			Low:             pool.Token0Price,
		}
	}

	if pool.Token0Price.GreaterThan(d.High) {
		d.High = pool.Token0Price
	}
	if pool.Token0Price.LessThan(d.Low) {
		d.Low = pool.Token0Price
	}
	d.Close = pool.Token0Price

	d.Token0Price = pool.Token0Price
	d.Token1Price = pool.Token1Price
	d.Liquidity = pool.Liquidity
	d.SqrtPrice = pool.SqrtPrice
	d.Tick = pool.Tick
	d.FeeGrowthGlobal0X128 = pool.FeeGrowthGlobal0X128
	d.FeeGrowthGlobal1X128 = pool.FeeGrowthGlobal1X128
	d.TVLUSD = pool.TotalValueLockedUSD
	d.TxCount++

	return d
}

// UpdateTokenDayData folds the token's current state into its daily
// bucket. priceUSD is the token's USD price at event time.
func UpdateTokenDayData(prev *domain.TokenDayData, token *domain.Token, priceUSD decimal.Decimal, timestamp int64) *domain.TokenDayData {
	dayIndex := DayIndex(timestamp)

	d := prev
	if d == nil {
		d = &domain.TokenDayData{
			ID:      domain.BucketID(token.Address, dayIndex, token.ChainID),
			ChainID: token.ChainID,
			Date:    dayIndex * domain.DayBucketSeconds,
			TokenID: token.ID,
			Open:    priceUSD,
			High:    priceUSD,
			Low:     priceUSD,
		}
	}

	if priceUSD.GreaterThan(d.High) {
		d.High = priceUSD
	}
	if priceUSD.LessThan(d.Low) {
		d.Low = priceUSD
	}
	d.Close = priceUSD

	d.PriceUSD = priceUSD
	d.TotalValueLocked = token.TotalValueLocked
	d.TotalValueLockedUSD = token.TotalValueLockedUSD

	return d
}

// UpdateTokenHourData folds the token's current state into its hourly bucket.
func UpdateTokenHourData(prev *domain.TokenHourData, token *domain.Token, priceUSD decimal.Decimal, timestamp int64) *domain.TokenHourData {
	hourIndex := HourIndex(timestamp)

	d := prev
	if d == nil {
		d = &domain.TokenHourData{
			ID:              domain.BucketID(token.Address, hourIndex, token.ChainID),
			ChainID:         token.ChainID,
			PeriodStartUnix: hourIndex * domain.HourBucketSeconds,
			TokenID:         token.ID,
			Open:            priceUSD,
			High:            priceUSD,
			Low:             priceUSD,
		}
	}

	if priceUSD.GreaterThan(d.High) {
		d.High = priceUSD
	}
	if priceUSD.LessThan(d.Low) {
		d.Low = priceUSD
	}
	d.Close = priceUSD

	d.PriceUSD = priceUSD
	d.TotalValueLocked = token.TotalValueLocked
	d.TotalValueLockedUSD = token.TotalValueLockedUSD

	return d
}

// UpdateProtocolDayData folds the factory aggregates into the
// protocol-wide daily bucket. TVLUSD and TxCount mirror the cumulative
// factory counters; volume and fee flows are accumulated by the swap
// handler.
func UpdateProtocolDayData(prev *domain.ProtocolDayData, factory *domain.Factory, chainID uint64, timestamp int64) *domain.ProtocolDayData {
	dayIndex := DayIndex(timestamp)

	d := prev
	if d == nil {
		d = &domain.ProtocolDayData{
			ID:      domain.ProtocolDayID(dayIndex, chainID),
			ChainID: chainID,
			Date:    dayIndex * domain.DayBucketSeconds,
		}
	}

	d.TVLUSD = factory.TotalValueLockedUSD
	d.TxCount = factory.TxCount

	return d
}
