package badger

import (
	"context"

	"github.com/autom8ter/datasets/kv"
	"github.com/autom8ter/datasets/kv/registry"
	"github.com/autom8ter/datasets/util"
	"github.com/dgraph-io/badger/v3"
)

func init() {
	registry.Register("badger", func(params map[string]any) (kv.DB, error) {
		var p badgerParams
		if err := util.Decode(params, &p); err != nil {
			return nil, err
		}
		return open(p.StoragePath)
	})
}

// badgerParams configures the badger provider. An empty storage path opens an in-memory database.
type badgerParams struct {
	StoragePath string `json:"storage_path"`
}

type badgerKV struct {
	db       *badger.DB
	inMemory bool
}

func open(storagePath string) (kv.DB, error) {
	opts := badger.DefaultOptions(storagePath)
	if storagePath == "" {
		opts.InMemory = true
		opts.Dir = ""
		opts.ValueDir = ""
	}
	opts = opts.WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerKV{
		db:       db,
		inMemory: opts.InMemory,
	}, nil
}

func (b *badgerKV) Tx(ctx context.Context, opts kv.TxOpts, fn func(kv.Tx) error) error {
	return kv.RunTx(ctx, b, opts, fn)
}

func (b *badgerKV) NewTx(opts kv.TxOpts) (kv.Tx, error) {
	return &badgerTx{
		opts: opts,
		txn:  b.db.NewTransaction(!opts.IsReadOnly),
	}, nil
}

func (b *badgerKV) Close(ctx context.Context) error {
	if !b.inMemory {
		if err := b.db.Sync(); err != nil {
			return err
		}
	}
	return b.db.Close()
}
