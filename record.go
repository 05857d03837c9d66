package datasets

import (
	"context"
	"time"
)

// Record is a single json object stored in a dataset
type Record struct {
	ID          string    `json:"id"`
	DatasetName string    `json:"dataset_name"`
	Data        *Document `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Deleted     bool      `json:"is_deleted"`
	Version     int       `json:"version"`
}

// InsertRecordRequest is a request to add a record to a dataset
type InsertRecordRequest struct {
	DatasetName string    `json:"dataset_name"`
	Data        *Document `json:"data"`
}

// InsertRecordResponse acknowledges an inserted record
type InsertRecordResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	RecordID    string    `json:"record_id"`
	DatasetName string    `json:"dataset_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// QueryRequest is a request to group and/or sort the records of a dataset
type QueryRequest struct {
	DatasetName string `json:"dataset_name"`
	GroupBy     string `json:"group_by,omitempty"`
	SortBy      string `json:"sort_by,omitempty"`
	SortOrder   string `json:"sort_order,omitempty"`
}

// IsGroupByQuery returns true if the request names a group-by field
func (q QueryRequest) IsGroupByQuery() bool {
	return !isBlank(q.GroupBy)
}

// IsSortByQuery returns true if the request names a sort-by field
func (q QueryRequest) IsSortByQuery() bool {
	return !isBlank(q.SortBy)
}

// Action is a change to a record
type Action string

const (
	ActionInsert Action = "insert"
	ActionDelete Action = "delete"
)

// RecordEvent is a change event emitted when a record is inserted or deleted
type RecordEvent struct {
	Action    Action    `json:"action"`
	Record    *Record   `json:"record"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordEventHandler handles change events. Returning false stops the stream.
type RecordEventHandler func(ctx context.Context, event RecordEvent) (bool, error)
