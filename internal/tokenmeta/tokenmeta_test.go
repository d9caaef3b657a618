package tokenmeta

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"univ3-pool-lab/internal/chains"
)

type stubResolver struct {
	meta *Metadata
	err  error
}

func (s *stubResolver) Resolve(context.Context, string) (*Metadata, error) {
	return s.meta, s.err
}

func TestStaticResolver_OverrideHit(t *testing.T) {
	cfg := &chains.Config{
		TokenOverrides: []chains.StaticTokenDefinition{
			{
				Address:  "0xe0b7927c4af23765cb51314a0e0521a9645f0e2a",
				Symbol:   "DGD",
				Name:     "DGD",
				Decimals: 9,
			},
		},
	}
	r := NewStaticResolver(cfg, &stubResolver{meta: &Metadata{Symbol: "WRONG"}})

	meta, err := r.Resolve(context.Background(), "0xE0B7927c4aF23765Cb51314A0E0521A9645F0E2A")
	require.NoError(t, err)
	require.Equal(t, "DGD", meta.Symbol)
	require.Equal(t, int32(9), meta.Decimals)
	require.True(t, meta.DecimalsOK)
	require.NotNil(t, meta.TotalSupply)
}

func TestStaticResolver_Delegates(t *testing.T) {
	cfg := &chains.Config{}
	next := &stubResolver{meta: &Metadata{
		Symbol:      "USDC",
		Name:        "USD Coin",
		Decimals:    6,
		DecimalsOK:  true,
		TotalSupply: big.NewInt(1),
	}}
	r := NewStaticResolver(cfg, next)

	meta, err := r.Resolve(context.Background(), "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	require.NoError(t, err)
	require.Equal(t, "USDC", meta.Symbol)
}

func TestStaticResolver_NoDelegate(t *testing.T) {
	r := NewStaticResolver(&chains.Config{}, nil)

	meta, err := r.Resolve(context.Background(), "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	require.Equal(t, "unknown", meta.Symbol)
	require.False(t, meta.DecimalsOK)
}

func TestDecodeStringResult(t *testing.T) {
	abiString := func(s string) []byte {
		out := make([]byte, 64)
		out[31] = 32
		out[63] = byte(len(s))
		data := make([]byte, 32)
		copy(data, s)
		return append(out, data...)
	}

	tests := []struct {
		name string
		raw  []byte
		want string
		ok   bool
	}{
		{"dynamic string", abiString("USDC"), "USDC", true},
		{"bytes32", append([]byte("MKR"), make([]byte, 29)...), "MKR", true},
		{"empty", nil, "", false},
		{"all zero bytes32", make([]byte, 32), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeStringResult(tt.raw)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
