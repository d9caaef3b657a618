package postgres

import (
	"univ3-pool-lab/internal/storage"
)

// NewStores bundles all PostgreSQL-backed stores over a shared pool.
func NewStores(pool *Pool) *storage.Stores {
	return &storage.Stores{
		Factories:       NewFactoryStore(pool),
		Bundles:         NewBundleStore(pool),
		Tokens:          NewTokenStore(pool),
		Pools:           NewPoolStore(pool),
		Ticks:           NewTickStore(pool),
		Transactions:    NewTransactionStore(pool),
		Swaps:           NewSwapRecordStore(pool),
		Mints:           NewMintRecordStore(pool),
		Burns:           NewBurnRecordStore(pool),
		Collects:        NewCollectRecordStore(pool),
		PoolDayData:     NewPoolDayDataStore(pool),
		PoolHourData:    NewPoolHourDataStore(pool),
		TokenDayData:    NewTokenDayDataStore(pool),
		TokenHourData:   NewTokenHourDataStore(pool),
		ProtocolDayData: NewProtocolDayDataStore(pool),
	}
}
