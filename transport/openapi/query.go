package openapi

import (
	"encoding/json"
	"net/http"

	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/transport/openapi/httpError"
	"github.com/gorilla/mux"
)

// FieldsResponse lists the field paths of a dataset
type FieldsResponse struct {
	DatasetName string   `json:"dataset_name"`
	Fields      []string `json:"fields"`
}

// queryHandler picks the operation from the query parameters that are present, even when they are empty
func (o *OpenAPIServer) queryHandler(db datasets.Datasets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		params := r.URL.Query()
		hasGroupBy, hasSortBy := params.Has("groupBy"), params.Has("sortBy")
		if !hasGroupBy && !hasSortBy {
			httpError.Error(w, r, errors.NewKind(errors.Validation, errors.InvalidJSON, "At least one query parameter (groupBy or sortBy) must be provided"))
			return
		}
		req := datasets.QueryRequest{
			DatasetName: mux.Vars(r)["dataset"],
			GroupBy:     params.Get("groupBy"),
			SortBy:      params.Get("sortBy"),
			SortOrder:   params.Get("order"),
		}
		var (
			resp *datasets.QueryResponse
			err  error
		)
		switch {
		case hasGroupBy && hasSortBy:
			resp, err = db.GroupByThenSort(r.Context(), req)
		case hasGroupBy:
			resp, err = db.GroupBy(r.Context(), req)
		default:
			resp, err = db.SortBy(r.Context(), req)
		}
		if err != nil {
			httpError.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}

func (o *OpenAPIServer) fieldsHandler(db datasets.Datasets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		dataset := mux.Vars(r)["dataset"]
		fields, err := db.Fields(r.Context(), dataset)
		if err != nil {
			httpError.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(&FieldsResponse{
			DatasetName: dataset,
			Fields:      fields,
		})
	}
}
