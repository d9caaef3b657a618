// Package chains holds per-chain configuration for the indexing engine.
// A Registry is constructed once at startup and passed into every
// component that needs chain-specific behavior; there is no ambient
// global chain state.
package chains

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Config is the per-chain configuration consumed by the engine.
// All addresses are lowercased hex.
type Config struct {
	ChainID uint64

	// FactoryAddress is the pool factory deployment on this chain.
	FactoryAddress string

	// StablecoinWrappedNativePoolAddress is the reference pool used to
	// derive the native asset's USD price. Prefer the deepest pool
	// pairing a stablecoin with the wrapped native token.
	StablecoinWrappedNativePoolAddress string

	// StablecoinIsToken0 is true when the stablecoin is token0 of the
	// reference pool.
	StablecoinIsToken0 bool

	// WrappedNativeAddress tracks the price of the native asset.
	WrappedNativeAddress string

	// MinimumNativeLocked is the minimum native-side locked value a pool
	// needs before the oracle will use it to price a token.
	MinimumNativeLocked decimal.Decimal

	// StablecoinAddresses are priced as the inverse of the native USD price.
	StablecoinAddresses []string

	// WhitelistTokens: a token must share a pool with one of these to
	// derive a price; also gates tracked volume.
	WhitelistTokens []string

	// TokenOverrides replace RPC metadata lookups for known tokens.
	TokenOverrides []StaticTokenDefinition

	// PoolsToSkip are never created by the PoolCreated handler.
	PoolsToSkip []string
}

// IsWhitelisted reports whether the token address is a whitelist token.
func (c *Config) IsWhitelisted(address string) bool {
	return containsAddress(c.WhitelistTokens, address)
}

// IsStablecoin reports whether the token address is a configured stablecoin.
func (c *Config) IsStablecoin(address string) bool {
	return containsAddress(c.StablecoinAddresses, address)
}

// ShouldSkipPool reports whether pool creation is suppressed for the address.
func (c *Config) ShouldSkipPool(address string) bool {
	return containsAddress(c.PoolsToSkip, address)
}

func containsAddress(list []string, address string) bool {
	address = strings.ToLower(address)
	for _, a := range list {
		if a == address {
			return true
		}
	}
	return false
}

// Registry maps chain IDs to their configuration.
type Registry struct {
	configs map[uint64]*Config
}

// NewRegistry builds a registry from the given configs.
// Returns an error on duplicate chain IDs.
func NewRegistry(configs ...*Config) (*Registry, error) {
	r := &Registry{configs: make(map[uint64]*Config, len(configs))}
	for _, cfg := range configs {
		if _, exists := r.configs[cfg.ChainID]; exists {
			return nil, fmt.Errorf("duplicate chain config for chain %d", cfg.ChainID)
		}
		r.configs[cfg.ChainID] = cfg
	}
	return r, nil
}

// Get returns the config for a chain, or nil if the chain is unknown.
func (r *Registry) Get(chainID uint64) *Config {
	return r.configs[chainID]
}

// ChainIDs returns all configured chain IDs.
func (r *Registry) ChainIDs() []uint64 {
	ids := make([]uint64, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	return ids
}
