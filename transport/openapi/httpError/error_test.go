package httpError_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/transport/openapi/httpError"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("kind and details", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/datasets/users/query", nil)
		w := httptest.NewRecorder()
		httpError.Error(w, r, errors.NewKind(errors.Validation, errors.InvalidSortOrder, "Invalid sort order: up. Must be 'asc' or 'desc'").
			WithDetails("Valid sort orders: 'asc' (ascending) or 'desc' (descending)"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		var resp httpError.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 400, resp.Status)
		assert.Equal(t, "Bad Request", resp.Error)
		assert.Equal(t, errors.InvalidSortOrder, resp.Code)
		assert.Equal(t, "Invalid sort order: up. Must be 'asc' or 'desc'", resp.Message)
		assert.Equal(t, []string{"Valid sort orders: 'asc' (ascending) or 'desc' (descending)"}, resp.Details)
		assert.Equal(t, "/api/datasets/users/query", resp.Path)
		assert.NotEmpty(t, resp.Timestamp)
	})
	t.Run("not found", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/datasets/users/records/1", nil)
		w := httptest.NewRecorder()
		httpError.Error(w, r, errors.NewKind(errors.NotFound, errors.RecordNotFound, "Record '1' not found"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := httpError.NewErrorResponse(r, errors.NewKind(errors.NotFound, errors.RecordNotFound, "Record '1' not found"))
		assert.Equal(t, "Not Found", resp.Error)
		assert.Equal(t, errors.RecordNotFound, resp.Code)
	})
	t.Run("unknown errors are internal and hide their cause", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/datasets/users/fields", nil)
		resp := httpError.NewErrorResponse(r, fmt.Errorf("disk on fire"))
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.Equal(t, errors.InternalError, resp.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Message)
	})
}
