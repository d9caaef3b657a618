package domain

// Transaction is one record per (transaction hash, chain), idempotently
// upserted by every event in that transaction. Gas fields are present
// for schema compatibility but have no reliable upstream source.
type Transaction struct {
	ID      string // tx hash + chain
	Hash    string
	ChainID uint64

	BlockNumber uint64
	Timestamp   int64

	GasUsed  int64
	GasPrice int64
}
