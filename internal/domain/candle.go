package domain

import "github.com/shopspring/decimal"

// Candle periods exported to the analytics store.
const (
	CandlePeriodHour = "1h"
	CandlePeriodDay  = "1d"
)

// Candle is a flattened pool OHLC row for timeseries export. OHLC
// tracks the pool's token0 price over the bucket.
type Candle struct {
	ChainID     uint64
	PoolID      string
	Period      string
	BucketStart int64

	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal

	VolumeToken0 decimal.Decimal
	VolumeToken1 decimal.Decimal
	VolumeUSD    decimal.Decimal
	FeesUSD      decimal.Decimal
	TVLUSD       decimal.Decimal
	TxCount      int64
}

// CandleFromPoolHour flattens an hourly pool rollup into a candle.
func CandleFromPoolHour(d *PoolHourData) *Candle {
	return &Candle{
		ChainID:      d.ChainID,
		PoolID:       d.PoolID,
		Period:       CandlePeriodHour,
		BucketStart:  d.PeriodStartUnix,
		Open:         d.Open,
		High:         d.High,
		Low:          d.Low,
		Close:        d.Close,
		VolumeToken0: d.VolumeToken0,
		VolumeToken1: d.VolumeToken1,
		VolumeUSD:    d.VolumeUSD,
		FeesUSD:      d.FeesUSD,
		TVLUSD:       d.TVLUSD,
		TxCount:      d.TxCount,
	}
}

// CandleFromPoolDay flattens a daily pool rollup into a candle.
func CandleFromPoolDay(d *PoolDayData) *Candle {
	return &Candle{
		ChainID:      d.ChainID,
		PoolID:       d.PoolID,
		Period:       CandlePeriodDay,
		BucketStart:  d.Date,
		Open:         d.Open,
		High:         d.High,
		Low:          d.Low,
		Close:        d.Close,
		VolumeToken0: d.VolumeToken0,
		VolumeToken1: d.VolumeToken1,
		VolumeUSD:    d.VolumeUSD,
		FeesUSD:      d.FeesUSD,
		TVLUSD:       d.TVLUSD,
		TxCount:      d.TxCount,
	}
}
