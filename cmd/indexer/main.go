// Command indexer runs live multi-chain ingestion: it subscribes to
// factory and pool logs over WebSocket, orders them per chain, and
// applies them to the aggregate ledger. Optionally it mirrors pool OHLC
// rollups into ClickHouse.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/export"
	"univ3-pool-lab/internal/feegrowth"
	"univ3-pool-lab/internal/ingestion"
	"univ3-pool-lab/internal/ledger"
	"univ3-pool-lab/internal/observability"
	"univ3-pool-lab/internal/storage"
	chstore "univ3-pool-lab/internal/storage/clickhouse"
	"univ3-pool-lab/internal/storage/memory"
	"univ3-pool-lab/internal/storage/migrations"
	pgstore "univ3-pool-lab/internal/storage/postgres"
	"univ3-pool-lab/internal/tokenmeta"
)

// chainEndpoints is one --chain flag value: "chainID,wsEndpoint,rpcEndpoint".
type chainEndpoints struct {
	chainID     uint64
	wsEndpoint  string
	rpcEndpoint string
}

func main() {
	var chainFlags []chainEndpoints

	flag.Func("chain", "Chain to index as 'chainID,wsEndpoint,rpcEndpoint' (repeatable)", func(v string) error {
		parts := strings.SplitN(v, ",", 3)
		if len(parts) != 3 {
			return fmt.Errorf("expected 'chainID,wsEndpoint,rpcEndpoint', got %q", v)
		}
		chainID, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("parse chain id: %w", err)
		}
		chainFlags = append(chainFlags, chainEndpoints{
			chainID:     chainID,
			wsEndpoint:  strings.TrimSpace(parts[1]),
			rpcEndpoint: strings.TrimSpace(parts[2]),
		})
		return nil
	})
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse DSN for candle export (empty to disable)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	blockLag := flag.Uint64("block-lag", 3, "Blocks to buffer before treating a block as final")
	flushInterval := flag.Duration("flush-interval", 5*time.Second, "Interval between finalized-block flushes")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(level)
	}

	if len(chainFlags) == 0 {
		logger.Fatal("no chains specified, use --chain")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, chainFlags, *postgresDSN, *clickhouseDSN, *useMemory, *metricsAddr, *blockLag, *flushInterval); err != nil && err != context.Canceled {
		logger.WithError(err).Fatal("indexer failed")
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, logger *logrus.Logger, chainFlags []chainEndpoints,
	postgresDSN, clickhouseDSN string, useMemory bool, metricsAddr string,
	blockLag uint64, flushInterval time.Duration) error {

	metrics := observability.NewDefaultMetrics("")

	if metricsAddr != "" {
		go serveMetrics(logger, metricsAddr)
	}

	// Per-chain configuration.
	var configs []*chains.Config
	for _, cf := range chainFlags {
		cfg := knownConfig(cf.chainID)
		if cfg == nil {
			return fmt.Errorf("no built-in configuration for chain %d", cf.chainID)
		}
		configs = append(configs, cfg)
	}
	registry, err := chains.NewRegistry(configs...)
	if err != nil {
		return err
	}

	// Storage.
	var stores *storage.Stores
	if useMemory {
		stores = memory.NewStores()
	} else {
		if postgresDSN == "" {
			return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
		}
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}
		stores = pgstore.NewStores(pool)
	}

	// Per-chain RPC collaborators.
	metadata := make(map[uint64]tokenmeta.Resolver)
	feeGrowth := make(map[uint64]feegrowth.Source)
	infoSources := make(map[uint64]ingestion.BlockInfoSource)
	for _, cf := range chainFlags {
		rpcClient, err := rpc.DialContext(ctx, cf.rpcEndpoint)
		if err != nil {
			return fmt.Errorf("dial rpc for chain %d: %w", cf.chainID, err)
		}
		defer rpcClient.Close()

		ethClient := ethclient.NewClient(rpcClient)
		metadata[cf.chainID] = tokenmeta.NewStaticResolver(
			registry.Get(cf.chainID),
			tokenmeta.NewChainResolver(ethClient),
		)
		feeGrowth[cf.chainID] = feegrowth.NewChainSource(ethClient)
		infoSources[cf.chainID] = ingestion.NewRPCBlockInfoSource(rpcClient, metrics)
	}

	engine, err := ledger.NewEngine(ledger.Options{
		Stores:    stores,
		Registry:  registry,
		Metadata:  metadata,
		FeeGrowth: feeGrowth,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		return err
	}

	var sink ingestion.EventSink = engine
	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()

		sink, err = export.NewCandleSink(export.CandleSinkOptions{
			Sink:    engine,
			Hours:   stores.PoolHourData,
			Days:    stores.PoolDayData,
			Candles: chstore.NewCandleStore(conn),
			Logger:  logger,
		})
		if err != nil {
			return err
		}
	}

	var runners []*ingestion.Runner
	for _, cf := range chainFlags {
		source := ingestion.NewWSEventSource(cf.chainID, cf.wsEndpoint, infoSources[cf.chainID], nil, logger)
		runner, err := ingestion.NewRunner(ingestion.RunnerOptions{
			ChainID:        cf.chainID,
			Source:         source,
			Sink:           sink,
			BlockLagWindow: blockLag,
			FlushInterval:  flushInterval,
			Logger:         logger,
			Metrics:        metrics,
		})
		if err != nil {
			return err
		}
		runners = append(runners, runner)
	}

	logger.WithField("chains", len(runners)).Info("starting live ingestion")
	return ingestion.NewManager(runners, logger).Run(ctx)
}

// knownConfig maps a chain ID to its built-in configuration.
func knownConfig(chainID uint64) *chains.Config {
	switch chainID {
	case chains.MainnetChainID:
		return chains.Mainnet()
	case chains.ArbitrumChainID:
		return chains.Arbitrum()
	default:
		return nil
	}
}

func serveMetrics(logger *logrus.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	logger.WithField("addr", addr).Info("starting metrics server")
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("metrics server error")
	}
}
