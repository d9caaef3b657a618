// Command replay feeds a captured JSONL event file through the
// aggregate ledger, rebuilding state deterministically without any
// chain connectivity. Metadata comes from the chain's static overrides
// only.
package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/chains"
	"univ3-pool-lab/internal/ingestion"
	"univ3-pool-lab/internal/ledger"
	"univ3-pool-lab/internal/observability"
	"univ3-pool-lab/internal/storage"
	"univ3-pool-lab/internal/storage/memory"
	"univ3-pool-lab/internal/storage/migrations"
	pgstore "univ3-pool-lab/internal/storage/postgres"
)

func main() {
	input := flag.String("input", "", "Path to the JSONL event capture")
	chainID := flag.Uint64("chain-id", chains.MainnetChainID, "Chain the capture belongs to")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(level)
	}

	if *input == "" {
		logger.Fatal("--input is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *input, *chainID, *postgresDSN, *useMemory); err != nil && err != context.Canceled {
		logger.WithError(err).Fatal("replay failed")
	}
	logger.Info("replay complete")
}

func run(ctx context.Context, logger *logrus.Logger, input string, chainID uint64, postgresDSN string, useMemory bool) error {
	cfg := knownConfig(chainID)
	if cfg == nil {
		return fmt.Errorf("no built-in configuration for chain %d", chainID)
	}
	registry, err := chains.NewRegistry(cfg)
	if err != nil {
		return err
	}

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

	engine, err := ledger.NewEngine(ledger.Options{
		Stores:   stores,
		Registry: registry,
		Logger:   logger,
		Metrics:  observability.NewMetrics(""),
	})
	if err != nil {
		return err
	}

	runner, err := ingestion.NewRunner(ingestion.RunnerOptions{
		ChainID:       chainID,
		Source:        ingestion.NewFileEventSource(input, logger),
		Sink:          engine,
		FlushInterval: 100 * time.Millisecond,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"input":    input,
		"chain":    chainID,
		"duration": time.Since(start).String(),
	}).Info("event capture applied")
	return nil
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
