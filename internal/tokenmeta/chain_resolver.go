package tokenmeta

import (
	"context"
	"math/big"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC-20 method selectors (first four bytes of the keccak hash of the
// canonical signature).
var (
	selectorSymbol      = []byte{0x95, 0xd8, 0x9b, 0x41} // symbol()
	selectorName        = []byte{0x06, 0xfd, 0xde, 0x03} // name()
	selectorDecimals    = []byte{0x31, 0x3c, 0xe5, 0x67} // decimals()
	selectorTotalSupply = []byte{0x18, 0x16, 0x0d, 0xdd} // totalSupply()
)

// maxTokenDecimals rejects contracts that report absurd precision.
const maxTokenDecimals = 77

// ChainResolver resolves ERC-20 metadata over JSON-RPC.
type ChainResolver struct {
	client *ethclient.Client
}

// NewChainResolver wraps an RPC client.
func NewChainResolver(client *ethclient.Client) *ChainResolver {
	return &ChainResolver{client: client}
}

// Resolve reads symbol, name, decimals and total supply from the token
// contract. Individual call failures degrade to "unknown" fields; only
// a missing or out-of-range decimals marks the token unusable.
func (r *ChainResolver) Resolve(ctx context.Context, address string) (*Metadata, error) {
	contract := common.HexToAddress(address)

	meta := &Metadata{
		Symbol:      "unknown",
		Name:        "unknown",
		TotalSupply: big.NewInt(0),
	}

	if raw, err := r.call(ctx, contract, selectorSymbol); err == nil {
		if s, ok := decodeStringResult(raw); ok {
			meta.Symbol = s
		}
	}
	if raw, err := r.call(ctx, contract, selectorName); err == nil {
		if s, ok := decodeStringResult(raw); ok {
			meta.Name = s
		}
	}
	if raw, err := r.call(ctx, contract, selectorTotalSupply); err == nil && len(raw) >= 32 {
		meta.TotalSupply = new(big.Int).SetBytes(raw[:32])
	}

	raw, err := r.call(ctx, contract, selectorDecimals)
	if err != nil || len(raw) < 32 {
		return meta, nil
	}
	decimals := new(big.Int).SetBytes(raw[:32])
	if !decimals.IsInt64() || decimals.Int64() < 0 || decimals.Int64() > maxTokenDecimals {
		return meta, nil
	}
	meta.Decimals = int32(decimals.Int64())
	meta.DecimalsOK = true

	return meta, nil
}

func (r *ChainResolver) call(ctx context.Context, contract common.Address, selector []byte) ([]byte, error) {
	return r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: selector,
	}, nil)
}

// decodeStringResult handles both ABI-encoded dynamic strings and the
// legacy bytes32 encoding some early tokens use.
func decodeStringResult(raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	// Dynamic string: 32-byte offset, 32-byte length, then data.
	if len(raw) >= 64 {
		offset := new(big.Int).SetBytes(raw[:32])
		if offset.IsInt64() && offset.Int64() == 32 {
			length := new(big.Int).SetBytes(raw[32:64])
			if length.IsInt64() {
				n := length.Int64()
				if n >= 0 && 64+n <= int64(len(raw)) {
					return sanitize(string(raw[64 : 64+n]))
				}
			}
		}
	}

	// Legacy bytes32: right-padded with NULs.
	if len(raw) == 32 {
		return sanitize(strings.TrimRight(string(raw), "\x00"))
	}

	return "", false
}

func sanitize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return "", false
		}
	}
	return s, true
}

var _ Resolver = (*ChainResolver)(nil)
