// Package pricing implements the native-asset price oracle: the USD
// price of the chain's native asset, the transitively derived native
// price of arbitrary tokens, and the tracked-USD valuation of event
// amounts. A price of zero always means "unknown", never "free".
package pricing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/pricemath"
	"univ3-pool-lab/internal/storage"
)

var one = decimal.New(1, 0)

// NativeUSDPrice reads the configured stablecoin / wrapped-native
// reference pool and returns the USD price of one native asset unit.
// Returns zero when the reference pool has not been seen yet.
func NativeUSDPrice(ctx context.Context, pools storage.PoolStore, cfg *chains.Config) (decimal.Decimal, error) {
	id := domain.ScopedID(cfg.StablecoinWrappedNativePoolAddress, cfg.ChainID)
	pool, err := pools.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}

	// Token0Price is token1-per-token0. With the stablecoin on the
	// token0 side, the native price in USD is the inverse quote.
	if cfg.StablecoinIsToken0 {
		return pool.Token1Price, nil
	}
	return pool.Token0Price, nil
}

// DeriveNativePrice returns the token's price in native-asset units.
//
// The wrapped native token is worth exactly one unit. Configured
// stablecoins are priced as the inverse of nativeUSD, the current
// bundle price. Every other token is priced through its whitelist-pool
// adjacency: among pools holding at least the configured minimum of
// native-side value, the deepest one wins, first seen on ties. Returns
// zero when no pool qualifies.
func DeriveNativePrice(ctx context.Context, token *domain.Token, stores *storage.Stores, cfg *chains.Config, nativeUSD decimal.Decimal) (decimal.Decimal, error) {
	if token.Address == cfg.WrappedNativeAddress {
		return one, nil
	}

	if cfg.IsStablecoin(token.Address) {
		return pricemath.SafeDiv(one, nativeUSD), nil
	}

	largestNativeLocked := decimal.Zero
	priceSoFar := decimal.Zero

	for _, poolID := range token.WhitelistPools {
		pool, err := stores.Pools.Get(ctx, poolID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return decimal.Zero, err
		}
		if pool.Liquidity == nil || pool.Liquidity.Sign() <= 0 {
			continue
		}

		if pool.Token0ID == token.ID {
			counter, err := stores.Tokens.Get(ctx, pool.Token1ID)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return decimal.Zero, err
			}
			nativeLocked := pool.TotalValueLockedToken1.Mul(counter.DerivedETH)
			if nativeLocked.GreaterThan(largestNativeLocked) && nativeLocked.GreaterThanOrEqual(cfg.MinimumNativeLocked) {
				largestNativeLocked = nativeLocked
				priceSoFar = pool.Token0Price.Mul(counter.DerivedETH)
			}
		} else if pool.Token1ID == token.ID {
			counter, err := stores.Tokens.Get(ctx, pool.Token0ID)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return decimal.Zero, err
			}
			nativeLocked := pool.TotalValueLockedToken0.Mul(counter.DerivedETH)
			if nativeLocked.GreaterThan(largestNativeLocked) && nativeLocked.GreaterThanOrEqual(cfg.MinimumNativeLocked) {
				largestNativeLocked = nativeLocked
				priceSoFar = pool.Token1Price.Mul(counter.DerivedETH)
			}
		}
	}

	return priceSoFar, nil
}

// TrackedAmountUSD values a pair of absolute token amounts in USD,
// counting only whitelisted legs. Both legs whitelisted: the average of
// the two leg values. One leg: that leg's full value. Neither: zero.
func TrackedAmountUSD(amount0 decimal.Decimal, token0 *domain.Token, amount1 decimal.Decimal, token1 *domain.Token, nativeUSD decimal.Decimal, cfg *chains.Config) decimal.Decimal {
	price0USD := token0.DerivedETH.Mul(nativeUSD)
	price1USD := token1.DerivedETH.Mul(nativeUSD)

	wl0 := cfg.IsWhitelisted(token0.Address)
	wl1 := cfg.IsWhitelisted(token1.Address)

	switch {
	case wl0 && wl1:
		return amount0.Mul(price0USD).Add(amount1.Mul(price1USD)).Div(decimal.New(2, 0))
	case wl0:
		return amount0.Mul(price0USD)
	case wl1:
		return amount1.Mul(price1USD)
	default:
		return decimal.Zero
	}
}
