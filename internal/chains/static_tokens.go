package chains

import (
	"math/big"
	"strings"
)

// StaticTokenDefinition overrides RPC metadata for tokens whose on-chain
// metadata is missing or malformed (e.g. bytes32 symbols).
type StaticTokenDefinition struct {
	Address     string
	Symbol      string
	Name        string
	Decimals    int32
	TotalSupply *big.Int
}

// StaticDefinition returns the override for an address, or nil.
func StaticDefinition(address string, overrides []StaticTokenDefinition) *StaticTokenDefinition {
	address = strings.ToLower(address)
	for i := range overrides {
		if overrides[i].Address == address {
			return &overrides[i]
		}
	}
	return nil
}
