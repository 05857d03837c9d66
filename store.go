package datasets

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/kv"
	"github.com/autom8ter/datasets/kv/kvutil"
)

const storePrefix = "datasets"

// Store persists the records of every dataset in a key value database
type Store interface {
	// Put creates or overwrites a record
	Put(ctx context.Context, record *Record) error
	// Get returns a record by id, including soft deleted records
	Get(ctx context.Context, dataset, id string) (*Record, error)
	// Update loads a record, including a soft deleted one, applies fn and saves the result in a single
	// transaction. Nothing is saved if fn returns an error.
	Update(ctx context.Context, dataset, id string, fn func(record *Record) error) (*Record, error)
	// List returns the non-deleted records of a dataset ordered by creation time
	List(ctx context.Context, dataset string) ([]*Record, error)
	// Close closes the underlying database
	Close(ctx context.Context) error
}

type kvStore struct {
	db kv.DB
	mu sync.Mutex
}

// NewStore returns a Store backed by the key value database
func NewStore(db kv.DB) Store {
	return &kvStore{db: db}
}

func recordKey(dataset, id string) []byte {
	return kvutil.Key(storePrefix, dataset, id)
}

func (s *kvStore) Put(ctx context.Context, record *Record) error {
	bits, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, errors.Internal, "failed to encode record")
	}
	return errors.Wrap(s.db.Tx(ctx, kv.TxOpts{}, func(tx kv.Tx) error {
		return tx.Set(ctx, recordKey(record.DatasetName, record.ID), bits)
	}), errors.Internal, "failed to save record")
}

// getRecord reads a record inside tx, returning nil if it does not exist
func getRecord(ctx context.Context, tx kv.Getter, dataset, id string) (*Record, error) {
	bits, err := tx.Get(ctx, recordKey(dataset, id))
	if err != nil || bits == nil {
		return nil, err
	}
	record := &Record{}
	if err := json.Unmarshal(bits, record); err != nil {
		return nil, err
	}
	return record, nil
}

func recordNotFound(dataset, id string) error {
	return errors.NewKind(errors.NotFound, errors.RecordNotFound, "Record '%s' not found in dataset '%s'", id, dataset)
}

func (s *kvStore) Get(ctx context.Context, dataset, id string) (*Record, error) {
	var record *Record
	err := s.db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(tx kv.Tx) error {
		var err error
		record, err = getRecord(ctx, tx, dataset, id)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.Internal, "failed to get record")
	}
	if record == nil {
		return nil, recordNotFound(dataset, id)
	}
	return record, nil
}

func (s *kvStore) Update(ctx context.Context, dataset, id string, fn func(record *Record) error) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated *Record
	err := s.db.Tx(ctx, kv.TxOpts{}, func(tx kv.Tx) error {
		record, err := getRecord(ctx, tx, dataset, id)
		if err != nil {
			return errors.Wrap(err, errors.Internal, "failed to get record")
		}
		if record == nil {
			return recordNotFound(dataset, id)
		}
		if err := fn(record); err != nil {
			return err
		}
		bits, err := json.Marshal(record)
		if err != nil {
			return errors.Wrap(err, errors.Internal, "failed to encode record")
		}
		if err := tx.Set(ctx, recordKey(dataset, id), bits); err != nil {
			return errors.Wrap(err, errors.Internal, "failed to save record")
		}
		updated = record
		return nil
	})
	if _, ok := err.(*errors.Error); err != nil && !ok {
		return nil, errors.Wrap(err, errors.Internal, "failed to update record")
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *kvStore) List(ctx context.Context, dataset string) ([]*Record, error) {
	var records []*Record
	err := s.db.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(tx kv.Tx) error {
		iter, err := tx.NewIterator(kv.IterOpts{Prefix: kvutil.Prefix(storePrefix, dataset)})
		if err != nil {
			return err
		}
		defer iter.Close()
		for iter.Valid() {
			bits, err := iter.Value()
			if err != nil {
				return err
			}
			var record Record
			if err := json.Unmarshal(bits, &record); err != nil {
				return err
			}
			if !record.Deleted {
				records = append(records, &record)
			}
			if err := iter.Next(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.Internal, "failed to list records")
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (s *kvStore) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}
