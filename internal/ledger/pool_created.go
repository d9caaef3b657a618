package ledger

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// handlePoolCreated registers a new pool and, lazily, its tokens and
// the chain's factory and bundle. Pool creation is abandoned entirely
// when either token's decimals cannot be resolved.
func (e *Engine) handlePoolCreated(ctx context.Context, cfg *chains.Config, ev *domain.Event) error {
	params := ev.PoolCreated
	meta := ev.Meta
	chainLabel := strconv.FormatUint(meta.ChainID, 10)

	poolAddress := strings.ToLower(params.Pool)
	if cfg.ShouldSkipPool(poolAddress) {
		e.metrics.PoolsSkipped.WithLabelValues(chainLabel).Inc()
		return nil
	}

	factory, err := e.loadOrCreateFactory(ctx, cfg, meta)
	if err != nil {
		return err
	}
	factory.PoolCount++

	pool := &domain.Pool{
		ID:                   domain.ScopedID(poolAddress, meta.ChainID),
		Address:              poolAddress,
		ChainID:              meta.ChainID,
		Token0ID:             domain.ScopedID(params.Token0, meta.ChainID),
		Token1ID:             domain.ScopedID(params.Token1, meta.ChainID),
		FeeTier:              params.Fee,
		CreatedAtTimestamp:   meta.Timestamp,
		CreatedAtBlockNumber: meta.BlockNumber,
		Liquidity:            big.NewInt(0),
		SqrtPrice:            big.NewInt(0),
		FeeGrowthGlobal0X128: big.NewInt(0),
		FeeGrowthGlobal1X128: big.NewInt(0),
	}

	token0, ok, err := e.loadOrCreateToken(ctx, cfg, meta, params.Token0)
	if err != nil {
		return err
	}
	if !ok {
		e.drop(meta, "unresolvable_decimals")
		return nil
	}
	token1, ok, err := e.loadOrCreateToken(ctx, cfg, meta, params.Token1)
	if err != nil {
		return err
	}
	if !ok {
		e.drop(meta, "unresolvable_decimals")
		return nil
	}

	// Adjacency for the price oracle: a pool joins the counter-token's
	// walk list when the other side is whitelisted.
	if cfg.IsWhitelisted(token0.Address) {
		token1.WhitelistPools = append(token1.WhitelistPools, pool.ID)
	}
	if cfg.IsWhitelisted(token1.Address) {
		token0.WhitelistPools = append(token0.WhitelistPools, pool.ID)
	}

	if err := e.stores.Pools.Set(ctx, pool); err != nil {
		return err
	}
	if err := e.stores.Tokens.Set(ctx, token0); err != nil {
		return err
	}
	if err := e.stores.Tokens.Set(ctx, token1); err != nil {
		return err
	}
	if err := e.stores.Factories.Set(ctx, factory); err != nil {
		return err
	}

	e.metrics.PoolsCreated.WithLabelValues(chainLabel).Inc()
	e.log.WithFields(logrus.Fields{
		"chain": meta.ChainID,
		"pool":  pool.ID,
		"fee":   pool.FeeTier,
	}).Info("pool created")
	return nil
}

// loadOrCreateFactory returns the chain's factory aggregate, creating
// it and the chain's price bundle on first sight.
func (e *Engine) loadOrCreateFactory(ctx context.Context, cfg *chains.Config, meta domain.EventMeta) (*domain.Factory, error) {
	id := domain.ScopedID(cfg.FactoryAddress, meta.ChainID)

	factory, err := e.stores.Factories.Get(ctx, id)
	if err == nil {
		return factory, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	factory = &domain.Factory{
		ID:      id,
		Address: cfg.FactoryAddress,
		ChainID: meta.ChainID,
		Owner:   addressZero,
	}
	bundle := &domain.Bundle{
		ID:          domain.BundleID(meta.ChainID),
		ChainID:     meta.ChainID,
		EthPriceUSD: decimal.Zero,
	}
	if err := e.stores.Bundles.Set(ctx, bundle); err != nil {
		return nil, err
	}
	e.log.WithField("chain", meta.ChainID).Info("factory created")
	return factory, nil
}

// loadOrCreateToken returns the token entity, resolving metadata on
// first sight. The boolean is false when decimals are unresolvable.
func (e *Engine) loadOrCreateToken(ctx context.Context, cfg *chains.Config, meta domain.EventMeta, address string) (*domain.Token, bool, error) {
	address = strings.ToLower(address)
	id := domain.ScopedID(address, meta.ChainID)

	token, err := e.stores.Tokens.Get(ctx, id)
	if err == nil {
		return token, true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}

	metadata, err := e.metadata[meta.ChainID].Resolve(ctx, address)
	if err != nil {
		e.metrics.MetadataLookups.WithLabelValues("rpc", "error").Inc()
		return nil, false, err
	}
	if !metadata.DecimalsOK {
		e.metrics.MetadataLookups.WithLabelValues("rpc", "no_decimals").Inc()
		e.log.WithFields(logrus.Fields{
			"chain": meta.ChainID,
			"token": address,
		}).Warn("token decimals unresolvable")
		return nil, false, nil
	}
	e.metrics.MetadataLookups.WithLabelValues("rpc", "ok").Inc()

	supply := metadata.TotalSupply
	if supply == nil {
		supply = big.NewInt(0)
	}
	token = &domain.Token{
		ID:          id,
		Address:     address,
		ChainID:     meta.ChainID,
		Symbol:      metadata.Symbol,
		Name:        metadata.Name,
		Decimals:    metadata.Decimals,
		TotalSupply: supply,
	}
	e.metrics.TokensCreated.WithLabelValues(strconv.FormatUint(meta.ChainID, 10)).Inc()
	return token, true, nil
}
