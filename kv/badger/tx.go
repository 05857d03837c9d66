package badger

import (
	"context"

	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/kv"
	"github.com/dgraph-io/badger/v3"
)

type badgerTx struct {
	opts kv.TxOpts
	txn  *badger.Txn
}

func (b *badgerTx) NewIterator(kopts kv.IterOpts) (kv.Iterator, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.PrefetchSize = 10
	opts.Prefix = kopts.Prefix
	iter := b.txn.NewIterator(opts)
	if kopts.Prefix == nil {
		iter.Rewind()
	} else {
		iter.Seek(kopts.Prefix)
	}
	return &badgerIterator{iter: iter, opts: kopts}, nil
}

func (b *badgerTx) Get(ctx context.Context, key []byte) ([]byte, error) {
	i, err := b.txn.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	return i.ValueCopy(nil)
}

func (b *badgerTx) Set(ctx context.Context, key, value []byte) error {
	if b.opts.IsReadOnly {
		return errors.New(errors.Forbidden, "writes forbidden in read-only transaction")
	}
	return b.txn.SetEntry(badger.NewEntry(key, value))
}

func (b *badgerTx) Delete(ctx context.Context, key []byte) error {
	if b.opts.IsReadOnly {
		return errors.New(errors.Forbidden, "writes forbidden in read-only transaction")
	}
	return b.txn.Delete(key)
}

func (b *badgerTx) Rollback(ctx context.Context) {
	b.txn.Discard()
}

func (b *badgerTx) Commit(ctx context.Context) error {
	if b.opts.IsReadOnly {
		b.txn.Discard()
		return nil
	}
	return b.txn.Commit()
}

func (b *badgerTx) Close(ctx context.Context) {
	b.txn.Discard()
}
