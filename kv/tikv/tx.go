package tikv

import (
	"context"

	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/kv"
	"github.com/autom8ter/datasets/kv/kvutil"
	tikvErr "github.com/tikv/client-go/v2/error"
	"github.com/tikv/client-go/v2/txnkv/transaction"
)

type tikvTx struct {
	txn      *transaction.KVTxn
	readOnly bool
	done     bool
}

func (t *tikvTx) NewIterator(kopts kv.IterOpts) (kv.Iterator, error) {
	var upper []byte
	if len(kopts.Prefix) > 0 {
		upper = kvutil.NextPrefix(kopts.Prefix)
	}
	iter, err := t.txn.Iter(kopts.Prefix, upper)
	if err != nil {
		return nil, err
	}
	return &tikvIterator{iter: iter, opts: kopts}, nil
}

func (t *tikvTx) Get(ctx context.Context, key []byte) ([]byte, error) {
	val, err := t.txn.Get(ctx, key)
	if err != nil {
		if tikvErr.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (t *tikvTx) Set(ctx context.Context, key, value []byte) error {
	if t.readOnly {
		return errors.New(errors.Forbidden, "writes forbidden in read-only transaction")
	}
	return t.txn.Set(key, value)
}

func (t *tikvTx) Delete(ctx context.Context, key []byte) error {
	if t.readOnly {
		return errors.New(errors.Forbidden, "writes forbidden in read-only transaction")
	}
	return t.txn.Delete(key)
}

func (t *tikvTx) Rollback(ctx context.Context) {
	if t.done {
		return
	}
	t.done = true
	_ = t.txn.Rollback()
}

func (t *tikvTx) Commit(ctx context.Context) error {
	if t.readOnly {
		t.Rollback(ctx)
		return nil
	}
	t.done = true
	return t.txn.Commit(ctx)
}

func (t *tikvTx) Close(ctx context.Context) {
	t.Rollback(ctx)
}
