package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"univ3-pool-lab/internal/domain"
	"univ3-pool-lab/internal/storage"
)

// SwapRecordStore implements storage.SwapRecordStore using PostgreSQL.
type SwapRecordStore struct {
	pool *Pool
}

// NewSwapRecordStore creates a new SwapRecordStore.
func NewSwapRecordStore(pool *Pool) *SwapRecordStore {
	return &SwapRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SwapRecordStore = (*SwapRecordStore)(nil)

// Insert adds an immutable swap record. Returns ErrDuplicateKey when
// the record id already exists.
func (s *SwapRecordStore) Insert(ctx context.Context, r *domain.SwapRecord) error {
	query := `
		INSERT INTO swap_records (
			id, chain_id, transaction_id, timestamp, log_index,
			pool_id, token0_id, token1_id, sender, recipient, origin,
			amount0, amount1, amount_usd, sqrt_price_x96, tick
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.ChainID, r.TransactionID, r.Timestamp, r.LogIndex,
		r.PoolID, r.Token0ID, r.Token1ID, r.Sender, r.Recipient, r.Origin,
		decStr(r.Amount0), decStr(r.Amount1), decStr(r.AmountUSD),
		bigStr(r.SqrtPriceX96), r.Tick,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert swap record: %w", err)
	}
	return nil
}

// GetByPool retrieves a pool's swap records in on-chain order.
func (s *SwapRecordStore) GetByPool(ctx context.Context, poolID string) ([]*domain.SwapRecord, error) {
	query := `
		SELECT id, chain_id, transaction_id, timestamp, log_index,
			pool_id, token0_id, token1_id, sender, recipient, origin,
			amount0::text, amount1::text, amount_usd::text, sqrt_price_x96::text, tick
		FROM swap_records
		WHERE pool_id = $1
		ORDER BY timestamp ASC, log_index ASC
	`

	rows, err := s.pool.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("get swap records by pool: %w", err)
	}
	defer rows.Close()

	var records []*domain.SwapRecord
	for rows.Next() {
		r, err := scanSwapRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap record row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap record rows: %w", err)
	}
	return records, nil
}

func scanSwapRecord(row pgx.Row) (*domain.SwapRecord, error) {
	r := &domain.SwapRecord{}
	var amount0, amount1, amountUSD, sqrtPrice string
	err := row.Scan(
		&r.ID, &r.ChainID, &r.TransactionID, &r.Timestamp, &r.LogIndex,
		&r.PoolID, &r.Token0ID, &r.Token1ID, &r.Sender, &r.Recipient, &r.Origin,
		&amount0, &amount1, &amountUSD, &sqrtPrice, &r.Tick,
	)
	if err != nil {
		return nil, err
	}
	if r.Amount0, err = parseDec(amount0); err != nil {
		return nil, err
	}
	if r.Amount1, err = parseDec(amount1); err != nil {
		return nil, err
	}
	if r.AmountUSD, err = parseDec(amountUSD); err != nil {
		return nil, err
	}
	if r.SqrtPriceX96, err = parseBig(sqrtPrice); err != nil {
		return nil, err
	}
	return r, nil
}

// MintRecordStore implements storage.MintRecordStore using PostgreSQL.
type MintRecordStore struct {
	pool *Pool
}

// NewMintRecordStore creates a new MintRecordStore.
func NewMintRecordStore(pool *Pool) *MintRecordStore {
	return &MintRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MintRecordStore = (*MintRecordStore)(nil)

// Insert adds an immutable mint record.
func (s *MintRecordStore) Insert(ctx context.Context, r *domain.MintRecord) error {
	query := `
		INSERT INTO mint_records (
			id, chain_id, transaction_id, timestamp, log_index,
			pool_id, token0_id, token1_id, owner, sender, origin,
			amount, amount0, amount1, amount_usd, tick_lower, tick_upper
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.ChainID, r.TransactionID, r.Timestamp, r.LogIndex,
		r.PoolID, r.Token0ID, r.Token1ID, r.Owner, r.Sender, r.Origin,
		bigStr(r.Amount), decStr(r.Amount0), decStr(r.Amount1), decStr(r.AmountUSD),
		r.TickLower, r.TickUpper,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert mint record: %w", err)
	}
	return nil
}

// GetByPool retrieves a pool's mint records in on-chain order.
func (s *MintRecordStore) GetByPool(ctx context.Context, poolID string) ([]*domain.MintRecord, error) {
	query := `
		SELECT id, chain_id, transaction_id, timestamp, log_index,
			pool_id, token0_id, token1_id, owner, sender, origin,
			amount::text, amount0::text, amount1::text, amount_usd::text, tick_lower, tick_upper
		FROM mint_records
		WHERE pool_id = $1
		ORDER BY timestamp ASC, log_index ASC
	`

	rows, err := s.pool.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("get mint records by pool: %w", err)
	}
	defer rows.Close()

	var records []*domain.MintRecord
	for rows.Next() {
		r := &domain.MintRecord{}
		var amount, amount0, amount1, amountUSD string
		err := rows.Scan(
			&r.ID, &r.ChainID, &r.TransactionID, &r.Timestamp, &r.LogIndex,
			&r.PoolID, &r.Token0ID, &r.Token1ID, &r.Owner, &r.Sender, &r.Origin,
			&amount, &amount0, &amount1, &amountUSD, &r.TickLower, &r.TickUpper,
		)
		if err != nil {
			return nil, fmt.Errorf("scan mint record row: %w", err)
		}
		if r.Amount, err = parseBig(amount); err != nil {
			return nil, err
		}
		if r.Amount0, err = parseDec(amount0); err != nil {
			return nil, err
		}
		if r.Amount1, err = parseDec(amount1); err != nil {
			return nil, err
		}
		if r.AmountUSD, err = parseDec(amountUSD); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mint record rows: %w", err)
	}
	return records, nil
}

// BurnRecordStore implements storage.BurnRecordStore using PostgreSQL.
type BurnRecordStore struct {
	pool *Pool
}

// NewBurnRecordStore creates a new BurnRecordStore.
func NewBurnRecordStore(pool *Pool) *BurnRecordStore {
	return &BurnRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BurnRecordStore = (*BurnRecordStore)(nil)

// Insert adds an immutable burn record.
func (s *BurnRecordStore) Insert(ctx context.Context, r *domain.BurnRecord) error {
	query := `
		INSERT INTO burn_records (
			id, chain_id, transaction_id, timestamp, log_index,
			pool_id, token0_id, token1_id, owner, origin,
			amount, amount0, amount1, amount_usd, tick_lower, tick_upper
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.ChainID, r.TransactionID, r.Timestamp, r.LogIndex,
		r.PoolID, r.Token0ID, r.Token1ID, r.Owner, r.Origin,
		bigStr(r.Amount), decStr(r.Amount0), decStr(r.Amount1), decStr(r.AmountUSD),
		r.TickLower, r.TickUpper,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert burn record: %w", err)
	}
	return nil
}

// GetByPool retrieves a pool's burn records in on-chain order.
func (s *BurnRecordStore) GetByPool(ctx context.Context, poolID string) ([]*domain.BurnRecord, error) {
	query := `
		SELECT id, chain_id, transaction_id, timestamp, log_index,
			pool_id, token0_id, token1_id, owner, origin,
			amount::text, amount0::text, amount1::text, amount_usd::text, tick_lower, tick_upper
		FROM burn_records
		WHERE pool_id = $1
		ORDER BY timestamp ASC, log_index ASC
	`

	rows, err := s.pool.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("get burn records by pool: %w", err)
	}
	defer rows.Close()

	var records []*domain.BurnRecord
	for rows.Next() {
		r := &domain.BurnRecord{}
		var amount, amount0, amount1, amountUSD string
		err := rows.Scan(
			&r.ID, &r.ChainID, &r.TransactionID, &r.Timestamp, &r.LogIndex,
			&r.PoolID, &r.Token0ID, &r.Token1ID, &r.Owner, &r.Origin,
			&amount, &amount0, &amount1, &amountUSD, &r.TickLower, &r.TickUpper,
		)
		if err != nil {
			return nil, fmt.Errorf("scan burn record row: %w", err)
		}
		if r.Amount, err = parseBig(amount); err != nil {
			return nil, err
		}
		if r.Amount0, err = parseDec(amount0); err != nil {
			return nil, err
		}
		if r.Amount1, err = parseDec(amount1); err != nil {
			return nil, err
		}
		if r.AmountUSD, err = parseDec(amountUSD); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate burn record rows: %w", err)
	}
	return records, nil
}

// CollectRecordStore implements storage.CollectRecordStore using PostgreSQL.
type CollectRecordStore struct {
	pool *Pool
}

// NewCollectRecordStore creates a new CollectRecordStore.
func NewCollectRecordStore(pool *Pool) *CollectRecordStore {
	return &CollectRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CollectRecordStore = (*CollectRecordStore)(nil)

// Insert adds an immutable collect record.
func (s *CollectRecordStore) Insert(ctx context.Context, r *domain.CollectRecord) error {
	query := `
		INSERT INTO collect_records (
			id, chain_id, transaction_id, timestamp, log_index,
			pool_id, owner, amount0, amount1, amount_usd, tick_lower, tick_upper
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.ChainID, r.TransactionID, r.Timestamp, r.LogIndex,
		r.PoolID, r.Owner, decStr(r.Amount0), decStr(r.Amount1), decStr(r.AmountUSD),
		r.TickLower, r.TickUpper,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert collect record: %w", err)
	}
	return nil
}

// GetByPool retrieves a pool's collect records in on-chain order.
func (s *CollectRecordStore) GetByPool(ctx context.Context, poolID string) ([]*domain.CollectRecord, error) {
	query := `
		SELECT id, chain_id, transaction_id, timestamp, log_index,
			pool_id, owner, amount0::text, amount1::text, amount_usd::text, tick_lower, tick_upper
		FROM collect_records
		WHERE pool_id = $1
		ORDER BY timestamp ASC, log_index ASC
	`

	rows, err := s.pool.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("get collect records by pool: %w", err)
	}
	defer rows.Close()

	var records []*domain.CollectRecord
	for rows.Next() {
		r := &domain.CollectRecord{}
		var amount0, amount1, amountUSD string
		err := rows.Scan(
			&r.ID, &r.ChainID, &r.TransactionID, &r.Timestamp, &r.LogIndex,
			&r.PoolID, &r.Owner, &amount0, &amount1, &amountUSD, &r.TickLower, &r.TickUpper,
		)
		if err != nil {
			return nil, fmt.Errorf("scan collect record row: %w", err)
		}
		if r.Amount0, err = parseDec(amount0); err != nil {
			return nil, err
		}
		if r.Amount1, err = parseDec(amount1); err != nil {
			return nil, err
		}
		if r.AmountUSD, err = parseDec(amountUSD); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collect record rows: %w", err)
	}
	return records, nil
}
