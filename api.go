package datasets

import (
	"context"
)

// Datasets is a store of json records grouped into named datasets that can be grouped and sorted by any field
type Datasets interface {
	// Writer writes records
	Writer
	// Reader reads records
	Reader
	// Querier groups and sorts records
	Querier
	// Watch blocks, calling fn on every change to the dataset until fn returns false or the context is cancelled
	Watch(ctx context.Context, dataset string, fn RecordEventHandler) error
	// Close shuts down the service and its database
	Close(ctx context.Context) error
}

// Writer performs write operations against a dataset
type Writer interface {
	// Insert validates and stores a copy of the request's data as a new record
	Insert(ctx context.Context, req InsertRecordRequest) (*InsertRecordResponse, error)
	// Delete soft deletes a record
	Delete(ctx context.Context, dataset, id string) error
}

// Reader performs read operations against a dataset
type Reader interface {
	// Get gets a single non-deleted record
	Get(ctx context.Context, dataset, id string) (*Record, error)
	// Records returns every non-deleted record of the dataset in insertion order
	Records(ctx context.Context, dataset string) ([]*Record, error)
	// Fields returns the sorted dot notation paths present in the dataset's records. Arrays are not descended into.
	Fields(ctx context.Context, dataset string) ([]string, error)
}

// Querier groups and sorts the records of a dataset
type Querier interface {
	// Query runs group-by, sort-by or group-by-then-sort depending on the fields the request names
	Query(ctx context.Context, req QueryRequest) (*QueryResponse, error)
	// GroupBy groups the dataset's records by req.GroupBy
	GroupBy(ctx context.Context, req QueryRequest) (*QueryResponse, error)
	// SortBy sorts the dataset's records by req.SortBy
	SortBy(ctx context.Context, req QueryRequest) (*QueryResponse, error)
	// GroupByThenSort groups the dataset's records by req.GroupBy then sorts each group by req.SortBy
	GroupByThenSort(ctx context.Context, req QueryRequest) (*QueryResponse, error)
}
