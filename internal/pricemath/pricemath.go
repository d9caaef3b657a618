// Package pricemath converts raw integer token amounts and Q96
// fixed-point square-root prices into decimal quantities. All functions
// are pure; decimal arithmetic is used throughout to avoid float
// rounding drift across millions of accumulations.
package pricemath

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// divPrecision bounds the digits kept by decimal divisions. Matches the
// precision class of the upstream subgraph's BigDecimal.
const divPrecision = 34

// q96 = 2^96, the fixed-point scale of sqrtPriceX96.
var q96 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 96), 0)

// ToDecimal divides a raw integer token amount by 10^decimals.
// The conversion is an exact scale shift; decimals == 0 short-circuits.
func ToDecimal(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	if decimals == 0 {
		return decimal.NewFromBigInt(raw, 0)
	}
	return decimal.NewFromBigInt(raw, -decimals)
}

// SafeDiv returns a/b, or the zero decimal when b is exactly zero.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, divPrecision)
}

// SqrtPriceX96ToTokenPrices computes the two token prices implied by a
// Q96 sqrt price. price0 is denominated token1-per-token0:
//
//	price0 = (sqrtPriceX96 / 2^96)^2 * 10^(decimals0 - decimals1)
//	price1 = 1 / price0
//
// The ratio is squared as a decimal, never as a raw integer square, to
// keep intermediate magnitudes bounded.
func SqrtPriceX96ToTokenPrices(sqrtPriceX96 *big.Int, decimals0, decimals1 int32) (decimal.Decimal, decimal.Decimal) {
	if sqrtPriceX96 == nil {
		return decimal.Zero, decimal.Zero
	}
	ratio := decimal.NewFromBigInt(sqrtPriceX96, 0).DivRound(q96, divPrecision)
	price0 := ratio.Mul(ratio)
	if diff := decimals0 - decimals1; diff != 0 {
		// 10^(decimals0-decimals1) as an exact power of ten
		price0 = price0.Mul(decimal.New(1, diff))
	}
	price1 := SafeDiv(decimal.New(1, 0), price0)
	return price0, price1
}

// PriceAtTick returns 1.0001^tick as a decimal. Computed with float64
// exponentiation by squaring: the result is a display/reference field,
// not an input to the TVL or liquidity invariants.
func PriceAtTick(tick int32) decimal.Decimal {
	return decimal.NewFromFloat(fastExponentiation(1.0001, int(tick)))
}

// fastExponentiation implements exponentiation by squaring over float64.
func fastExponentiation(value float64, power int) float64 {
	if power < 0 {
		result := fastExponentiation(value, -power)
		if result == 0 {
			return 0
		}
		return 1 / result
	}
	if power == 0 {
		return 1
	}
	if power == 1 {
		return value
	}

	half := fastExponentiation(value, power/2)
	result := half * half
	if power%2 == 1 {
		result *= value
	}
	return result
}
