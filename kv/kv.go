package kv

import "context"

// DB is a transactional key value database
type DB interface {
	// Tx executes fn inside a transaction. The transaction is committed if fn returns nil and rolled back otherwise.
	Tx(ctx context.Context, opts TxOpts, fn func(Tx) error) error
	// NewTx returns a transaction that must be committed or rolled back by the caller
	NewTx(opts TxOpts) (Tx, error)
	// Close closes the database
	Close(ctx context.Context) error
}

// TxOpts are options when creating a transaction
type TxOpts struct {
	IsReadOnly bool `json:"isReadOnly"`
}

// IterOpts are options when creating an iterator
type IterOpts struct {
	Prefix []byte `json:"prefix"`
}

// Getter gets a value by key. A missing key returns a nil value and a nil error.
type Getter interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
}

// Setter sets a key value pair
type Setter interface {
	Set(ctx context.Context, key, value []byte) error
}

// Deleter deletes a key
type Deleter interface {
	Delete(ctx context.Context, key []byte) error
}

// Tx is a database transaction
type Tx interface {
	Getter
	Setter
	Deleter
	// NewIterator iterates keys in ascending order
	NewIterator(opts IterOpts) (Iterator, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context)
	// Close releases the transaction's resources. It is safe to call after Commit or Rollback.
	Close(ctx context.Context)
}

// Iterator walks key value pairs
type Iterator interface {
	Valid() bool
	Key() []byte
	Value() ([]byte, error)
	Next() error
	Close()
}

// RunTx runs fn inside a new transaction of the database, committing on success and rolling back on failure
func RunTx(ctx context.Context, db DB, opts TxOpts, fn func(Tx) error) error {
	tx, err := db.NewTx(opts)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)
	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
