package chains

import "github.com/shopspring/decimal"

// Known chain IDs.
const (
	MainnetChainID  uint64 = 1
	ArbitrumChainID uint64 = 42161
	BaseChainID     uint64 = 8453
	OptimismChainID uint64 = 10
)

// Mainnet returns the Ethereum mainnet configuration.
func Mainnet() *Config {
	return &Config{
		ChainID:                            MainnetChainID,
		FactoryAddress:                     "0x1f98431c8ad98523631ae4a59f267346ea31f984",
		StablecoinWrappedNativePoolAddress: "0x8ad599c3a0ff1de082011efddc58f1908eb6e6d8", // USDC-WETH 0.3%
		StablecoinIsToken0:                 true,
		WrappedNativeAddress:               "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", // WETH
		MinimumNativeLocked:                decimal.NewFromInt(20),
		StablecoinAddresses: []string{
			"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
			"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
			"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
		},
		WhitelistTokens: []string{
			"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", // WETH
			"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
			"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
			"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
			"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", // WBTC
		},
		TokenOverrides: []StaticTokenDefinition{
			{
				Address:  "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
				Symbol:   "WETH",
				Name:     "Wrapped Ether",
				Decimals: 18,
			},
			{
				Address:  "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
				Symbol:   "USDC",
				Name:     "USD Coin",
				Decimals: 6,
			},
			{
				Address:  "0x9a9a9a9a646c5c7ef52bab548b363e20f22bf1e5", // DGD-style bytes32 symbol
				Symbol:   "DGD",
				Name:     "DGD",
				Decimals: 9,
			},
		},
		PoolsToSkip: []string{},
	}
}

// Arbitrum returns the Arbitrum One configuration.
func Arbitrum() *Config {
	return &Config{
		ChainID:                            ArbitrumChainID,
		FactoryAddress:                     "0x1f98431c8ad98523631ae4a59f267346ea31f984",
		StablecoinWrappedNativePoolAddress: "0x17c14d2c404d167802b16c450d3c99f88f2c4f4d", // WETH-USDC 0.3%
		StablecoinIsToken0:                 false,
		WrappedNativeAddress:               "0x82af49447d8a07e3bd95bd0d56f35241523fbab1", // WETH
		MinimumNativeLocked:                decimal.NewFromInt(20),
		StablecoinAddresses: []string{
			"0xff970a61a04b1ca14834a43f5de4533ebddb5cc8", // USDC.e
			"0xda10009cbd5d07dd0cecc66161fc93d7c9000da1", // DAI
			"0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9", // USDT
		},
		WhitelistTokens: []string{
			"0x82af49447d8a07e3bd95bd0d56f35241523fbab1", // WETH
			"0xff970a61a04b1ca14834a43f5de4533ebddb5cc8", // USDC.e
			"0xda10009cbd5d07dd0cecc66161fc93d7c9000da1", // DAI
			"0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9", // USDT
		},
		TokenOverrides: []StaticTokenDefinition{
			{
				Address:  "0x82af49447d8a07e3bd95bd0d56f35241523fbab1",
				Symbol:   "WETH",
				Name:     "Wrapped Ethereum",
				Decimals: 18,
			},
			{
				Address:  "0xff970a61a04b1ca14834a43f5de4533ebddb5cc8",
				Symbol:   "USDC",
				Name:     "USD Coin",
				Decimals: 6,
			},
		},
		PoolsToSkip: []string{},
	}
}
