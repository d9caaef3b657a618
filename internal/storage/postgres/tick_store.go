package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// TickStore implements storage.TickStore using PostgreSQL.
type TickStore struct {
	pool *Pool
}

// NewTickStore creates a new TickStore.
func NewTickStore(pool *Pool) *TickStore {
	return &TickStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TickStore = (*TickStore)(nil)

const tickColumns = `
	id, chain_id, pool_id, pool_address, tick_idx,
	created_at_timestamp, created_at_block_number,
	liquidity_gross::text, liquidity_net::text,
	price0::text, price1::text
`

// Get retrieves a tick record. Returns ErrNotFound if absent.
func (s *TickStore) Get(ctx context.Context, id string) (*domain.Tick, error) {
	query := `SELECT ` + tickColumns + ` FROM ticks WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	tick, err := scanTick(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get tick: %w", err)
	}
	return tick, nil
}

// Set upserts a tick record.
func (s *TickStore) Set(ctx context.Context, t *domain.Tick) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO ticks (
			id, chain_id, pool_id, pool_address, tick_idx,
			created_at_timestamp, created_at_block_number,
			liquidity_gross, liquidity_net, price0, price1
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			liquidity_gross = EXCLUDED.liquidity_gross,
			liquidity_net = EXCLUDED.liquidity_net
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.ChainID, t.PoolID, t.PoolAddress, t.TickIdx,
		t.CreatedAtTimestamp, t.CreatedAtBlockNumber,
		bigStr(t.LiquidityGross), bigStr(t.LiquidityNet),
		decStr(t.Price0), decStr(t.Price1),
	)
	if err != nil {
		return fmt.Errorf("set tick: %w", err)
	}
	return nil
}

// GetByPool retrieves all tick records of a pool ordered by tick index.
func (s *TickStore) GetByPool(ctx context.Context, poolID string) ([]*domain.Tick, error) {
	query := `SELECT ` + tickColumns + ` FROM ticks WHERE pool_id = $1 ORDER BY tick_idx ASC`

	rows, err := s.pool.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("get ticks by pool: %w", err)
	}
	defer rows.Close()

	var ticks []*domain.Tick
	for rows.Next() {
		tick, err := scanTick(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tick row: %w", err)
		}
		ticks = append(ticks, tick)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tick rows: %w", err)
	}
	return ticks, nil
}

func scanTick(row pgx.Row) (*domain.Tick, error) {
	t := &domain.Tick{}
	var gross, net, price0, price1 string
	err := row.Scan(
		&t.ID, &t.ChainID, &t.PoolID, &t.PoolAddress, &t.TickIdx,
		&t.CreatedAtTimestamp, &t.CreatedAtBlockNumber,
		&gross, &net, &price0, &price1,
	)
	if err != nil {
		return nil, err
	}
	if t.LiquidityGross, err = parseBig(gross); err != nil {
		return nil, err
	}
	if t.LiquidityNet, err = parseBig(net); err != nil {
		return nil, err
	}
	if t.Price0, err = parseDec(price0); err != nil {
		return nil, err
	}
	if t.Price1, err = parseDec(price1); err != nil {
		return nil, err
	}
	return t, nil
}

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Get retrieves a transaction record. Returns ErrNotFound if absent.
func (s *TransactionStore) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
		SELECT id, hash, chain_id, block_number, timestamp, gas_used, gas_price
		FROM transactions
		WHERE id = $1
	`

	t := &domain.Transaction{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Hash, &t.ChainID, &t.BlockNumber, &t.Timestamp, &t.GasUsed, &t.GasPrice,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Set upserts a transaction record.
func (s *TransactionStore) Set(ctx context.Context, t *domain.Transaction) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO transactions (id, hash, chain_id, block_number, timestamp, gas_used, gas_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			block_number = EXCLUDED.block_number,
			timestamp = EXCLUDED.timestamp,
			gas_used = EXCLUDED.gas_used,
			gas_price = EXCLUDED.gas_price
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.Hash, t.ChainID, t.BlockNumber, t.Timestamp, t.GasUsed, t.GasPrice,
	)
	if err != nil {
		return fmt.Errorf("set transaction: %w", err)
	}
	return nil
}
