package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

func TestFactoryStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFactoryStore(pool)
	ctx := context.Background()

	factory := &domain.Factory{
		ID:                  domain.ScopedID("0x1F98431c8aD98523631AE4a59f267346ea31F984", 1),
		Address:             "0x1f98431c8ad98523631ae4a59f267346ea31f984",
		ChainID:             1,
		PoolCount:           3,
		TxCount:             42,
		TotalVolumeETH:      decimal.RequireFromString("12.5"),
		TotalVolumeUSD:      decimal.RequireFromString("20000.125"),
		UntrackedVolumeUSD:  decimal.RequireFromString("99.5"),
		TotalFeesETH:        decimal.RequireFromString("0.0375"),
		TotalFeesUSD:        decimal.RequireFromString("60"),
		TotalValueLockedETH: decimal.RequireFromString("200"),
		TotalValueLockedUSD: decimal.RequireFromString("320000"),
	}

	require.NoError(t, store.Set(ctx, factory))

	got, err := store.Get(ctx, factory.ID)
	require.NoError(t, err)

	assert.Equal(t, factory.ID, got.ID)
	assert.Equal(t, factory.Address, got.Address)
	assert.Equal(t, factory.ChainID, got.ChainID)
	assert.Equal(t, factory.PoolCount, got.PoolCount)
	assert.Equal(t, factory.TxCount, got.TxCount)
	assert.True(t, factory.TotalVolumeUSD.Equal(got.TotalVolumeUSD))
	assert.True(t, factory.TotalFeesETH.Equal(got.TotalFeesETH))
	assert.True(t, factory.TotalValueLockedUSD.Equal(got.TotalValueLockedUSD))

	// Upsert replaces mutable aggregates.
	factory.PoolCount = 4
	factory.TotalVolumeUSD = decimal.RequireFromString("21600.125")
	require.NoError(t, store.Set(ctx, factory))

	got, err = store.Get(ctx, factory.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.PoolCount)
	assert.True(t, decimal.RequireFromString("21600.125").Equal(got.TotalVolumeUSD))
}

func TestFactoryStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFactoryStore(pool)
	_, err := store.Get(context.Background(), "missing-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFactoryStore_SetInvalid(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFactoryStore(pool)
	assert.ErrorIs(t, store.Set(context.Background(), nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Set(context.Background(), &domain.Factory{}), storage.ErrInvalidInput)
}

func TestBundleStore_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBundleStore(pool)
	ctx := context.Background()

	bundle := &domain.Bundle{
		ID:          domain.BundleID(1),
		ChainID:     1,
		EthPriceUSD: decimal.RequireFromString("1600.000625"),
	}
	require.NoError(t, store.Set(ctx, bundle))

	got, err := store.Get(ctx, bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, bundle.ChainID, got.ChainID)
	assert.True(t, bundle.EthPriceUSD.Equal(got.EthPriceUSD))

	bundle.EthPriceUSD = decimal.RequireFromString("1580")
	require.NoError(t, store.Set(ctx, bundle))

	got, err = store.Get(ctx, bundle.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1580").Equal(got.EthPriceUSD))
}
