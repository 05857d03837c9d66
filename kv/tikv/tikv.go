package tikv

import (
	"context"

	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/kv"
	"github.com/autom8ter/datasets/kv/registry"
	"github.com/autom8ter/datasets/util"
	"github.com/tikv/client-go/v2/txnkv"
)

func init() {
	registry.Register("tikv", func(params map[string]any) (kv.DB, error) {
		var p tikvParams
		if err := util.Decode(params, &p); err != nil {
			return nil, err
		}
		if err := util.ValidateStruct(&p); err != nil {
			return nil, errors.Wrap(err, errors.Validation, "'pd_addr' is a required paramater")
		}
		return open(p.PDAddr)
	})
}

type tikvParams struct {
	PDAddr string `json:"pd_addr" validate:"required"`
}

type tikvKV struct {
	db *txnkv.Client
}

func open(pdAddr string) (kv.DB, error) {
	if pdAddr == "" {
		return nil, errors.New(errors.Validation, "empty pd address")
	}
	client, err := txnkv.NewClient([]string{pdAddr})
	if err != nil {
		return nil, err
	}
	return &tikvKV{
		db: client,
	}, nil
}

func (b *tikvKV) Tx(ctx context.Context, opts kv.TxOpts, fn func(kv.Tx) error) error {
	return kv.RunTx(ctx, b, opts, fn)
}

func (b *tikvKV) NewTx(opts kv.TxOpts) (kv.Tx, error) {
	tx, err := b.db.Begin()
	if err != nil {
		return nil, err
	}
	return &tikvTx{txn: tx, readOnly: opts.IsReadOnly}, nil
}

func (b *tikvKV) Close(ctx context.Context) error {
	return b.db.Close()
}
