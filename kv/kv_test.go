package kv_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/autom8ter/datasets/kv"
	_ "github.com/autom8ter/datasets/kv/badger"
	"github.com/autom8ter/datasets/kv/registry"
	"github.com/stretchr/testify/assert"
)

func Test(t *testing.T) {
	ctx := context.Background()
	var providers = []string{"badger"}
	for _, provider := range providers {
		t.Run(provider, func(t *testing.T) {
			db, err := registry.Open(provider, map[string]any{
				"storage_path": "",
			})
			assert.NoError(t, err)
			defer db.Close(ctx)
			data := map[string]string{}
			for i := 0; i < 10; i++ {
				data[fmt.Sprint(i)] = fmt.Sprint(i)
			}
			t.Run("set", func(t *testing.T) {
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{}, func(tx kv.Tx) error {
					for k, v := range data {
						assert.Nil(t, tx.Set(ctx, []byte(k), []byte(v)))
					}
					return nil
				}))
			})
			t.Run("get", func(t *testing.T) {
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(tx kv.Tx) error {
					for k, v := range data {
						data, err := tx.Get(ctx, []byte(k))
						assert.NoError(t, err)
						assert.EqualValues(t, v, string(data))
					}
					return nil
				}))
			})
			t.Run("manual tx", func(t *testing.T) {
				tx, err := db.NewTx(kv.TxOpts{})
				assert.NoError(t, err)
				defer tx.Close(ctx)
				assert.Nil(t, tx.Set(ctx, []byte("manual"), []byte("yes")))
				assert.Nil(t, tx.Commit(ctx))
				assert.Nil(t, db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(tx kv.Tx) error {
					val, err := tx.Get(ctx, []byte("manual"))
					assert.NoError(t, err)
					assert.Equal(t, "yes", string(val))
					return nil
				}))
			})
		})
	}
	t.Run("unregistered provider", func(t *testing.T) {
		_, err := registry.Open("nope", nil)
		assert.NotNil(t, err)
		assert.Contains(t, registry.Providers(), "badger")
	})
}
