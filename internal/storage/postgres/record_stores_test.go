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

const (
	recordPoolAddr = "0x60594a405d53811d3bc4766596efd80fd545a270"
	recordTxHash   = "0x1111111111111111111111111111111111111111111111111111111111111111"
)

func testSwapRecord(logIndex uint32, timestamp int64) *domain.SwapRecord {
	txID := domain.ScopedID(recordTxHash, 1)
	return &domain.SwapRecord{
		ID:            domain.EventRecordID(txID, logIndex),
		ChainID:       1,
		TransactionID: txID,
		Timestamp:     timestamp,
		LogIndex:      logIndex,
		PoolID:        domain.ScopedID(recordPoolAddr, 1),
		Token0ID:      domain.ScopedID("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", 1),
		Token1ID:      domain.ScopedID("0x6b175474e89094c44da98b954eedeac495271d0f", 1),
		Sender:        "0x00000000000000000000000000000000000000aa",
		Recipient:     "0x00000000000000000000000000000000000000bb",
		Origin:        "0x00000000000000000000000000000000000000cc",
		Amount0:       decimal.NewFromInt(1),
		Amount1:       decimal.NewFromInt(-1600),
		AmountUSD:     decimal.NewFromInt(1600),
		SqrtPriceX96:  new(big.Int).Lsh(big.NewInt(40), 96),
		Tick:          0,
	}
}

func TestSwapRecordStore_InsertAndGetByPool(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapRecordStore(pool)
	ctx := context.Background()

	// Inserted out of order, read back in on-chain order.
	require.NoError(t, store.Insert(ctx, testSwapRecord(7, 1700003000)))
	require.NoError(t, store.Insert(ctx, testSwapRecord(2, 1700003000)))
	require.NoError(t, store.Insert(ctx, testSwapRecord(1, 1700002000)))

	records, err := store.GetByPool(ctx, domain.ScopedID(recordPoolAddr, 1))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, uint32(1), records[0].LogIndex)
	assert.Equal(t, uint32(2), records[1].LogIndex)
	assert.Equal(t, uint32(7), records[2].LogIndex)

	got := records[0]
	assert.True(t, got.Amount1.Equal(decimal.NewFromInt(-1600)))
	assert.True(t, got.AmountUSD.Equal(decimal.NewFromInt(1600)))
	assert.Equal(t, 0, got.SqrtPriceX96.Cmp(new(big.Int).Lsh(big.NewInt(40), 96)))
}

func TestSwapRecordStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapRecordStore(pool)
	ctx := context.Background()

	record := testSwapRecord(3, 1700003000)
	require.NoError(t, store.Insert(ctx, record))
	assert.ErrorIs(t, store.Insert(ctx, record), storage.ErrDuplicateKey)
}

func TestMintRecordStore_InsertAndGetByPool(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMintRecordStore(pool)
	ctx := context.Background()

	txID := domain.ScopedID(recordTxHash, 1)
	record := &domain.MintRecord{
		ID:            domain.EventRecordID(txID, 4),
		ChainID:       1,
		TransactionID: txID,
		Timestamp:     1700002000,
		LogIndex:      4,
		PoolID:        domain.ScopedID(recordPoolAddr, 1),
		Token0ID:      domain.ScopedID("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", 1),
		Token1ID:      domain.ScopedID("0x6b175474e89094c44da98b954eedeac495271d0f", 1),
		Owner:         "0x00000000000000000000000000000000000000aa",
		Sender:        "0x00000000000000000000000000000000000000bb",
		Origin:        "0x00000000000000000000000000000000000000cc",
		Amount:        big.NewInt(1000),
		Amount0:       decimal.NewFromInt(10),
		Amount1:       decimal.NewFromInt(16000),
		AmountUSD:     decimal.NewFromInt(32000),
		TickLower:     -60000,
		TickUpper:     60000,
	}
	require.NoError(t, store.Insert(ctx, record))
	assert.ErrorIs(t, store.Insert(ctx, record), storage.ErrDuplicateKey)

	records, err := store.GetByPool(ctx, record.PoolID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1000), records[0].Amount.Int64())
	assert.Equal(t, int32(-60000), records[0].TickLower)
	assert.Equal(t, int32(60000), records[0].TickUpper)
	assert.True(t, records[0].AmountUSD.Equal(decimal.NewFromInt(32000)))
}

func TestBurnRecordStore_InsertAndGetByPool(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBurnRecordStore(pool)
	ctx := context.Background()

	txID := domain.ScopedID(recordTxHash, 1)
	record := &domain.BurnRecord{
		ID:            domain.EventRecordID(txID, 5),
		ChainID:       1,
		TransactionID: txID,
		Timestamp:     1700004000,
		LogIndex:      5,
		PoolID:        domain.ScopedID(recordPoolAddr, 1),
		Token0ID:      domain.ScopedID("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", 1),
		Token1ID:      domain.ScopedID("0x6b175474e89094c44da98b954eedeac495271d0f", 1),
		Owner:         "0x00000000000000000000000000000000000000aa",
		Origin:        "0x00000000000000000000000000000000000000cc",
		Amount:        big.NewInt(400),
		Amount0:       decimal.NewFromInt(4),
		Amount1:       decimal.NewFromInt(6400),
		AmountUSD:     decimal.NewFromInt(12800),
		TickLower:     -60000,
		TickUpper:     60000,
	}
	require.NoError(t, store.Insert(ctx, record))

	records, err := store.GetByPool(ctx, record.PoolID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(400), records[0].Amount.Int64())
	assert.True(t, records[0].Amount1.Equal(decimal.NewFromInt(6400)))
}

func TestCollectRecordStore_InsertAndGetByPool(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCollectRecordStore(pool)
	ctx := context.Background()

	txID := domain.ScopedID(recordTxHash, 1)
	record := &domain.CollectRecord{
		ID:            domain.EventRecordID(txID, 6),
		ChainID:       1,
		TransactionID: txID,
		Timestamp:     1700005000,
		LogIndex:      6,
		PoolID:        domain.ScopedID(recordPoolAddr, 1),
		Owner:         "0x00000000000000000000000000000000000000aa",
		Amount0:       decimal.RequireFromString("0.1"),
		Amount1:       decimal.NewFromInt(160),
		AmountUSD:     decimal.NewFromInt(160),
		TickLower:     -60000,
		TickUpper:     60000,
	}
	require.NoError(t, store.Insert(ctx, record))
	assert.ErrorIs(t, store.Insert(ctx, record), storage.ErrDuplicateKey)

	records, err := store.GetByPool(ctx, record.PoolID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount0.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, records[0].AmountUSD.Equal(decimal.NewFromInt(160)))
}
