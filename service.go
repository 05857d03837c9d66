package datasets

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/kv/registry"
	"github.com/autom8ter/machine/v4"
	"github.com/samber/lo"
	"github.com/segmentio/ksuid"
)

type service struct {
	logger   Logger
	store    Store
	machine  machine.Machine
	stream   Stream[RecordEvent]
	lastNano int64
}

// Open opens a Datasets instance backed by the config's kv provider
func Open(ctx context.Context, cfg Config, opts ...Opt) (Datasets, error) {
	s := &service{
		machine: machine.New(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.store == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		db, err := registry.Open(cfg.Provider, cfg.Params)
		if err != nil {
			code := errors.Extract(err).Code
			if code == 0 {
				code = errors.Internal
			}
			return nil, errors.Wrap(err, code, "failed to open %s provider", cfg.Provider)
		}
		s.store = NewStore(db)
	}
	if s.logger == nil {
		logger, err := NewLogger(cfg.LogLevel, map[string]any{"provider": cfg.Provider})
		if err != nil {
			return nil, err
		}
		s.logger = logger
	}
	s.stream = newStream[RecordEvent](s.machine)
	return s, nil
}

// now returns a strictly increasing timestamp so that creation order is insertion order
func (s *service) now() time.Time {
	for {
		last := atomic.LoadInt64(&s.lastNano)
		next := time.Now().UnixNano()
		if next <= last {
			next = last + 1
		}
		if atomic.CompareAndSwapInt64(&s.lastNano, last, next) {
			return time.Unix(0, next).UTC()
		}
	}
}

func (s *service) Insert(ctx context.Context, req InsertRecordRequest) (*InsertRecordResponse, error) {
	ctx = SetMetadataDataset(ctx, req.DatasetName)
	s.logger.Info(ctx, "inserting record", nil)
	if err := ValidateInsert(req); err != nil {
		s.logger.Warn(ctx, "insert validation failed", map[string]any{"error": errors.Extract(err).Message()})
		return nil, err
	}
	now := s.now()
	record := &Record{
		ID:          ksuid.New().String(),
		DatasetName: req.DatasetName,
		Data:        req.Data.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}
	if err := s.store.Put(ctx, record); err != nil {
		s.logger.Error(ctx, "failed to insert record", err, nil)
		return nil, err
	}
	s.stream.Broadcast(ctx, record.DatasetName, RecordEvent{
		Action:    ActionInsert,
		Record:    record,
		Timestamp: now,
	})
	s.logger.Info(ctx, "record inserted", map[string]any{"record_id": record.ID})
	return &InsertRecordResponse{
		Success:     true,
		Message:     "Record added successfully",
		RecordID:    record.ID,
		DatasetName: record.DatasetName,
		CreatedAt:   record.CreatedAt,
	}, nil
}

func (s *service) Get(ctx context.Context, dataset, id string) (*Record, error) {
	record, err := s.store.Get(ctx, dataset, id)
	if err != nil {
		return nil, err
	}
	if record.Deleted {
		return nil, recordNotFound(dataset, id)
	}
	return record, nil
}

func (s *service) Delete(ctx context.Context, dataset, id string) error {
	ctx = SetMetadataDataset(ctx, dataset)
	record, err := s.store.Update(ctx, dataset, id, func(record *Record) error {
		if record.Deleted {
			return recordNotFound(dataset, id)
		}
		record.Deleted = true
		record.Version++
		record.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if !errors.Is(err, errors.RecordNotFound) {
			s.logger.Error(ctx, "failed to delete record", err, map[string]any{"record_id": id})
		}
		return err
	}
	s.stream.Broadcast(ctx, dataset, RecordEvent{
		Action:    ActionDelete,
		Record:    record,
		Timestamp: record.UpdatedAt,
	})
	s.logger.Info(ctx, "record deleted", map[string]any{"record_id": id})
	return nil
}

func (s *service) Records(ctx context.Context, dataset string) ([]*Record, error) {
	return s.store.List(ctx, dataset)
}

func (s *service) Fields(ctx context.Context, dataset string) ([]string, error) {
	records, err := s.store.List(ctx, dataset)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewKind(errors.NotFound, errors.DatasetNotFound, "Dataset '%s' not found", dataset).
			WithDetails(fmt.Sprintf("Dataset '%s' does not exist or has no records", dataset))
	}
	var fields []string
	for _, r := range records {
		paths, err := r.Data.FieldPaths()
		if err != nil {
			return nil, errors.Wrap(err, errors.Internal, "failed to flatten record %s", r.ID)
		}
		fields = append(fields, paths...)
	}
	fields = lo.Uniq(fields)
	sort.Strings(fields)
	return fields, nil
}

func (s *service) documents(ctx context.Context, dataset string) (Documents, error) {
	records, err := s.store.List(ctx, dataset)
	if err != nil {
		s.logger.Error(ctx, "failed to fetch records", err, nil)
		return nil, err
	}
	s.logger.Debug(ctx, "fetched records", map[string]any{"records": len(records)})
	return lo.Map(records, func(r *Record, _ int) *Document {
		return r.Data
	}), nil
}

func (s *service) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	switch {
	case req.IsGroupByQuery() && req.IsSortByQuery():
		return s.GroupByThenSort(ctx, req)
	case req.IsGroupByQuery():
		return s.GroupBy(ctx, req)
	case req.IsSortByQuery():
		return s.SortBy(ctx, req)
	default:
		return nil, errors.NewKind(errors.Validation, errors.InvalidJSON, "At least one query parameter (groupBy or sortBy) must be provided")
	}
}

func (s *service) GroupBy(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	return s.query(ctx, req, OperationGroupBy, func(docs Documents, _ SortOrder) (*QueryResponse, error) {
		return GroupBy(req.DatasetName, docs, req.GroupBy)
	})
}

func (s *service) SortBy(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	return s.query(ctx, req, OperationSortBy, func(docs Documents, order SortOrder) (*QueryResponse, error) {
		return SortBy(req.DatasetName, docs, req.SortBy, order)
	})
}

func (s *service) GroupByThenSort(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	return s.query(ctx, req, OperationGroupByThenSort, func(docs Documents, order SortOrder) (*QueryResponse, error) {
		return GroupByThenSort(req.DatasetName, docs, req.GroupBy, req.SortBy, order)
	})
}

// query validates the request and every field path before fetching records, then runs fn against them
func (s *service) query(ctx context.Context, req QueryRequest, op Operation, fn func(docs Documents, order SortOrder) (*QueryResponse, error)) (*QueryResponse, error) {
	ctx = SetMetadataDataset(ctx, req.DatasetName)
	tags := map[string]any{
		"operation":  op,
		"group_by":   req.GroupBy,
		"sort_by":    req.SortBy,
		"sort_order": req.SortOrder,
	}
	s.logger.Info(ctx, "executing query", tags)
	order, err := validateQuery(req, op)
	if err == nil {
		err = validatePaths(req, op)
	}
	if err != nil {
		s.logger.Warn(ctx, "query validation failed", map[string]any{
			"operation": op,
			"error":     errors.Extract(err).Message(),
		})
		return nil, err
	}
	docs, err := s.documents(ctx, req.DatasetName)
	if err != nil {
		return nil, err
	}
	resp, err := fn(docs, order)
	if err != nil {
		return nil, err
	}
	tags["total_records"] = resp.TotalRecords
	if resp.Metadata != nil {
		tags["total_groups"] = resp.Metadata.TotalGroups
	}
	if resp.SortMetadata != nil {
		tags["field_type"] = resp.SortMetadata.FieldType
	}
	s.logger.Info(ctx, "query completed", tags)
	return resp, nil
}

// validatePaths parses the paths the operation uses so malformed paths fail before records are fetched
func validatePaths(req QueryRequest, op Operation) error {
	if op != OperationSortBy {
		if _, err := ParseFieldPath(req.GroupBy); err != nil {
			return errors.Extract(err).WithDetails(fieldDetail(req.DatasetName, req.GroupBy))
		}
	}
	if op != OperationGroupBy {
		if _, err := ParseFieldPath(req.SortBy); err != nil {
			return errors.Extract(err).WithDetails(fieldDetail(req.DatasetName, req.SortBy))
		}
	}
	return nil
}

func (s *service) Watch(ctx context.Context, dataset string, fn RecordEventHandler) error {
	ctx = SetMetadataDataset(ctx, dataset)
	s.logger.Debug(ctx, "watching dataset", nil)
	return s.stream.Pull(ctx, dataset, func(event RecordEvent) (bool, error) {
		return fn(ctx, event)
	})
}

func (s *service) Close(ctx context.Context) error {
	_ = s.logger.Sync()
	return s.store.Close(ctx)
}
