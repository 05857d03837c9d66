package datasets_test

import (
	"strings"
	"testing"

	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInsert(t *testing.T) {
	data := docs(t, `{"name":"alice"}`)[0]
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, datasets.ValidateInsert(datasets.InsertRecordRequest{DatasetName: "users", Data: data}))
		assert.NoError(t, datasets.ValidateInsert(datasets.InsertRecordRequest{DatasetName: "_orders-2024", Data: datasets.NewDocument()}))
	})
	t.Run("missing fields", func(t *testing.T) {
		err := datasets.ValidateInsert(datasets.InsertRecordRequest{DatasetName: " ", Data: data})
		assert.True(t, errors.Is(err, errors.InvalidJSON))
		err = datasets.ValidateInsert(datasets.InsertRecordRequest{DatasetName: "users"})
		assert.True(t, errors.Is(err, errors.InvalidJSON))
	})
	t.Run("invalid dataset names", func(t *testing.T) {
		for _, name := range []string{"1users", "users.v2", "with space", "-dash"} {
			err := datasets.ValidateInsert(datasets.InsertRecordRequest{DatasetName: name, Data: data})
			require.True(t, errors.Is(err, errors.DatasetValidation), name)
			assert.Equal(t, []string{"Dataset name must start with letter or underscore and contain only alphanumeric characters, underscores, or hyphens"}, errors.Extract(err).Details, name)
		}
		err := datasets.ValidateInsert(datasets.InsertRecordRequest{DatasetName: "a" + strings.Repeat("b", 255), Data: data})
		require.True(t, errors.Is(err, errors.DatasetValidation))
		assert.Contains(t, errors.Extract(err).Details, "Dataset name exceeds maximum length of 255 characters")
	})
	t.Run("blank keys", func(t *testing.T) {
		err := datasets.ValidateRecordData(docs(t, `{"ok":1,"  ":2}`)[0])
		require.True(t, errors.Is(err, errors.InvalidJSON))
		assert.Equal(t, []string{"JSON keys cannot be null or blank"}, errors.Extract(err).Details)
		err = datasets.ValidateRecordData(docs(t, `{"":1}`)[0])
		assert.True(t, errors.Is(err, errors.InvalidJSON))
	})
	t.Run("nested blank keys are allowed", func(t *testing.T) {
		assert.NoError(t, datasets.ValidateRecordData(docs(t, `{"outer":{" ":1}}`)[0]))
	})
}
