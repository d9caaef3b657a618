package pricemath

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals int32
		want     string
	}{
		{"one token at 18 decimals", "1000000000000000000", 18, "1"},
		{"fractional amount", "1500000", 6, "1.5"},
		{"zero decimals short-circuit", "12345", 0, "12345"},
		{"negative delta", "-2000000000", 6, "-2000"},
		{"dust", "1", 18, "0.000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := new(big.Int).SetString(tt.raw, 10)
			require.True(t, ok)

			got := ToDecimal(raw, tt.decimals)
			require.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestToDecimal_NilAmount(t *testing.T) {
	require.True(t, ToDecimal(nil, 18).IsZero())
}

func TestSafeDiv_ZeroDenominator(t *testing.T) {
	for _, numerator := range []string{"0", "1", "-42.5", "1000000000000000000000000"} {
		got := SafeDiv(decimal.RequireFromString(numerator), decimal.Zero)
		require.True(t, got.IsZero(), "SafeDiv(%s, 0) = %s, want 0", numerator, got)
	}
}

func TestSafeDiv(t *testing.T) {
	got := SafeDiv(decimal.NewFromInt(10), decimal.NewFromInt(4))
	require.True(t, got.Equal(decimal.RequireFromString("2.5")))
}

func TestSqrtPriceX96ToTokenPrices_UnitPrice(t *testing.T) {
	// sqrtPriceX96 == 2^96 encodes a raw ratio of exactly 1.
	sqrt := new(big.Int).Lsh(big.NewInt(1), 96)

	price0, price1 := SqrtPriceX96ToTokenPrices(sqrt, 18, 18)
	require.True(t, price0.Equal(decimal.New(1, 0)), "price0 = %s", price0)
	require.True(t, price1.Equal(decimal.New(1, 0)), "price1 = %s", price1)
}

func TestSqrtPriceX96ToTokenPrices_DecimalAdjustment(t *testing.T) {
	// Raw ratio 1 between an 18-decimal token0 and a 6-decimal token1:
	// one whole token0 (1e18 raw units) equals 1e12 whole token1.
	sqrt := new(big.Int).Lsh(big.NewInt(1), 96)

	price0, price1 := SqrtPriceX96ToTokenPrices(sqrt, 18, 6)
	require.True(t, price0.Equal(decimal.New(1, 12)), "price0 = %s", price0)
	require.True(t, price1.Equal(decimal.New(1, -12)), "price1 = %s", price1)
}

func TestSqrtPriceX96ToTokenPrices_RoundTrip(t *testing.T) {
	// price0 * price1 must stay ~1 within division precision.
	inputs := []string{
		"79228162514264337593543950336",    // 2^96
		"1845678901234567890123456789012",  // arbitrary large
		"4339505179874779672736325173410",  // ~3000 USDC/ETH region
		"112045541949572287496682733568",   // 2x unit
		"560227709747861437483413573739783", // deep out of range
	}

	tolerance := decimal.RequireFromString("0.0000000001")
	one := decimal.New(1, 0)

	for _, in := range inputs {
		sqrt, ok := new(big.Int).SetString(in, 10)
		require.True(t, ok)

		price0, price1 := SqrtPriceX96ToTokenPrices(sqrt, 18, 6)
		product := price0.Mul(price1)
		require.True(t, product.Sub(one).Abs().LessThan(tolerance),
			"price0*price1 = %s for sqrtPrice %s", product, in)
	}
}

func TestSqrtPriceX96ToTokenPrices_Zero(t *testing.T) {
	price0, price1 := SqrtPriceX96ToTokenPrices(big.NewInt(0), 18, 6)
	require.True(t, price0.IsZero())
	require.True(t, price1.IsZero(), "inverse of zero price is the zero sentinel")
}

func TestPriceAtTick(t *testing.T) {
	require.True(t, PriceAtTick(0).Equal(decimal.New(1, 0)))

	// 1.0001^10 ≈ 1.0010004501
	got := PriceAtTick(10)
	want := decimal.RequireFromString("1.0010004501")
	require.True(t, got.Sub(want).Abs().LessThan(decimal.RequireFromString("0.000001")),
		"PriceAtTick(10) = %s", got)

	// negative ticks invert
	product := PriceAtTick(120).Mul(PriceAtTick(-120))
	require.True(t, product.Sub(decimal.New(1, 0)).Abs().LessThan(decimal.RequireFromString("0.0000001")),
		"PriceAtTick(120)*PriceAtTick(-120) = %s", product)
}
