package datasets_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertJSON(t *testing.T, ctx context.Context, db datasets.Datasets, dataset string, data string) string {
	doc, err := datasets.NewDocumentFromBytes([]byte(data))
	require.NoError(t, err)
	resp, err := db.Insert(ctx, datasets.InsertRecordRequest{DatasetName: dataset, Data: doc})
	require.NoError(t, err)
	return resp.RecordID
}

func TestService(t *testing.T) {
	t.Run("insert and get", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			req := testutil.NewInsertRequest("users")
			resp, err := db.Insert(ctx, req)
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, "Record added successfully", resp.Message)
			assert.Equal(t, "users", resp.DatasetName)
			assert.NotEmpty(t, resp.RecordID)
			assert.False(t, resp.CreatedAt.IsZero())

			record, err := db.Get(ctx, "users", resp.RecordID)
			require.NoError(t, err)
			assert.JSONEq(t, req.Data.String(), record.Data.String())
			assert.Equal(t, 1, record.Version)
			assert.False(t, record.Deleted)
		}))
	})
	t.Run("insert copies the data", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			req := testutil.NewInsertRequest("users")
			resp, err := db.Insert(ctx, req)
			require.NoError(t, err)
			require.NoError(t, req.Data.Set("name", "changed"))
			record, err := db.Get(ctx, "users", resp.RecordID)
			require.NoError(t, err)
			assert.NotEqual(t, "changed", record.Data.GetString("name"))
		}))
	})
	t.Run("insert validation", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			_, err := db.Insert(ctx, datasets.InsertRecordRequest{DatasetName: "users"})
			assert.True(t, errors.Is(err, errors.InvalidJSON))

			_, err = db.Insert(ctx, datasets.InsertRecordRequest{DatasetName: "1users", Data: datasets.NewDocument()})
			assert.True(t, errors.Is(err, errors.DatasetValidation))
			assert.Len(t, errors.Extract(err).Details, 1)

			blankKey, err := datasets.NewDocumentFromBytes([]byte(`{" ":1}`))
			require.NoError(t, err)
			_, err = db.Insert(ctx, datasets.InsertRecordRequest{DatasetName: "users", Data: blankKey})
			assert.True(t, errors.Is(err, errors.InvalidJSON))
			assert.Equal(t, []string{"JSON keys cannot be null or blank"}, errors.Extract(err).Details)

			_, err = db.Insert(ctx, datasets.InsertRecordRequest{DatasetName: "users", Data: datasets.NewDocument()})
			assert.NoError(t, err, "empty objects are accepted")
		}))
	})
	t.Run("records keep insertion order", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			var ids []string
			for i := 0; i < 25; i++ {
				ids = append(ids, insertJSON(t, ctx, db, "ordered", fmt.Sprintf(`{"i":%d}`, i)))
			}
			insertJSON(t, ctx, db, "other", `{"i":100}`)
			records, err := db.Records(ctx, "ordered")
			require.NoError(t, err)
			require.Len(t, records, 25)
			for i, r := range records {
				assert.Equal(t, ids[i], r.ID)
			}
		}))
	})
	t.Run("delete", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			id := insertJSON(t, ctx, db, "users", `{"name":"alice"}`)
			insertJSON(t, ctx, db, "users", `{"name":"bob"}`)
			require.NoError(t, db.Delete(ctx, "users", id))
			_, err := db.Get(ctx, "users", id)
			assert.True(t, errors.Is(err, errors.RecordNotFound))
			assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
			records, err := db.Records(ctx, "users")
			require.NoError(t, err)
			assert.Len(t, records, 1)
			assert.True(t, errors.Is(db.Delete(ctx, "users", id), errors.RecordNotFound))
		}))
	})
	t.Run("concurrent deletes succeed once", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			id := insertJSON(t, ctx, db, "users", `{"name":"alice"}`)
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				deleted  int
				notFound int
			)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := db.Delete(ctx, "users", id)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						deleted++
					case errors.Is(err, errors.RecordNotFound):
						notFound++
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, deleted)
			assert.Equal(t, 9, notFound)
		}))
	})
	t.Run("fields", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			insertJSON(t, ctx, db, "users", `{"name":"alice","address":{"zip":"10001"},"tags":["a"]}`)
			insertJSON(t, ctx, db, "users", `{"name":"bob","age":30,"address":{"city":"nyc"}}`)
			fields, err := db.Fields(ctx, "users")
			require.NoError(t, err)
			assert.Equal(t, []string{"address.city", "address.zip", "age", "name", "tags"}, fields)
			_, err = db.Fields(ctx, "nothing")
			assert.True(t, errors.Is(err, errors.DatasetNotFound))
		}))
	})
	t.Run("query", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			insertJSON(t, ctx, db, "people", `{"name":"a","status":"active","age":10}`)
			insertJSON(t, ctx, db, "people", `{"name":"b","status":"inactive","age":null}`)
			insertJSON(t, ctx, db, "people", `{"name":"c","status":"active","age":5}`)
			insertJSON(t, ctx, db, "people", `{"name":"d","status":"pending"}`)

			grouped, err := db.Query(ctx, datasets.QueryRequest{DatasetName: "people", GroupBy: "status"})
			require.NoError(t, err)
			assert.Equal(t, datasets.OperationGroupBy, grouped.Operation)
			assert.Equal(t, map[string]int{"active": 2, "inactive": 1, "pending": 1}, grouped.Metadata.GroupSizes)

			sorted, err := db.Query(ctx, datasets.QueryRequest{DatasetName: "people", SortBy: "age", SortOrder: "DESC"})
			require.NoError(t, err)
			assert.Equal(t, datasets.OperationSortBy, sorted.Operation)
			assert.Equal(t, []any{"a", "c", "b", "d"}, fieldValues(*sorted.Results, "name"))
			assert.Equal(t, datasets.SortOrderDesc, sorted.SortMetadata.SortOrder)

			both, err := db.Query(ctx, datasets.QueryRequest{DatasetName: "people", GroupBy: "status", SortBy: "age"})
			require.NoError(t, err)
			assert.Equal(t, datasets.OperationGroupByThenSort, both.Operation)
			active, _ := both.Groups.Get("active")
			assert.Equal(t, []any{"c", "a"}, fieldValues(active, "name"))

			empty, err := db.SortBy(ctx, datasets.QueryRequest{DatasetName: "nothing", SortBy: "age"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Dataset is empty"}, empty.SortMetadata.Warnings)
		}))
	})
	t.Run("query validation", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			_, err := db.Query(ctx, datasets.QueryRequest{DatasetName: "people"})
			assert.True(t, errors.Is(err, errors.InvalidJSON))
			assert.Equal(t, "At least one query parameter (groupBy or sortBy) must be provided", errors.Extract(err).Message())

			_, err = db.GroupBy(ctx, datasets.QueryRequest{DatasetName: "people", GroupBy: " "})
			assert.True(t, errors.Is(err, errors.InvalidField))
			assert.Equal(t, "Group-by field is required", errors.Extract(err).Message())
			assert.Equal(t, []string{"Field ' ' in dataset 'people' is invalid"}, errors.Extract(err).Details)

			_, err = db.GroupByThenSort(ctx, datasets.QueryRequest{DatasetName: "people", GroupBy: "status"})
			assert.Equal(t, "Sort-by field is required for group-by-then-sort operation", errors.Extract(err).Message())

			_, err = db.SortBy(ctx, datasets.QueryRequest{DatasetName: "people", SortBy: "age", SortOrder: "up"})
			assert.True(t, errors.Is(err, errors.InvalidSortOrder))

			_, err = db.SortBy(ctx, datasets.QueryRequest{DatasetName: "people", SortBy: "a..b"})
			assert.True(t, errors.Is(err, errors.InvalidField))

			_, err = db.GroupBy(ctx, datasets.QueryRequest{DatasetName: "bad name", GroupBy: "status"})
			assert.True(t, errors.Is(err, errors.InvalidJSON))

			_, err = db.GroupBy(ctx, datasets.QueryRequest{GroupBy: "status"})
			assert.Equal(t, "Query request is invalid", errors.Extract(err).Message())
		}))
	})
	t.Run("watch", func(t *testing.T) {
		assert.Nil(t, testutil.TestDB(func(ctx context.Context, db datasets.Datasets) {
			var (
				mu     sync.Mutex
				events []datasets.RecordEvent
				done   = make(chan struct{})
			)
			go func() {
				defer close(done)
				_ = db.Watch(ctx, "users", func(ctx context.Context, event datasets.RecordEvent) (bool, error) {
					mu.Lock()
					defer mu.Unlock()
					events = append(events, event)
					return len(events) < 2, nil
				})
			}()
			time.Sleep(500 * time.Millisecond)
			id := insertJSON(t, ctx, db, "users", `{"name":"alice"}`)
			require.NoError(t, db.Delete(ctx, "users", id))
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("timed out waiting for change events")
			}
			mu.Lock()
			defer mu.Unlock()
			require.Len(t, events, 2)
			actions := []datasets.Action{events[0].Action, events[1].Action}
			assert.ElementsMatch(t, []datasets.Action{datasets.ActionInsert, datasets.ActionDelete}, actions)
			assert.Equal(t, id, events[0].Record.ID)
		}))
	})
	t.Run("open with unknown provider", func(t *testing.T) {
		_, err := datasets.Open(context.Background(), datasets.Config{Provider: "nope"})
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
		_, err = datasets.Open(context.Background(), datasets.Config{})
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
}
