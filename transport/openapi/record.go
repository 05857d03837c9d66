package openapi

import (
	"encoding/json"
	"net/http"

	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/transport/openapi/httpError"
	"github.com/gorilla/mux"
)

func (o *OpenAPIServer) insertHandler(db datasets.Datasets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		dataset := mux.Vars(r)["dataset"]
		var req datasets.InsertRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError.Error(w, r, errors.NewKind(errors.Validation, errors.InvalidJSON, "Invalid JSON payload").
				WithDetails(errors.Extract(err).Message()))
			return
		}
		if req.DatasetName != dataset {
			if req.DatasetName != "" {
				o.logger.Warn(r.Context(), "dataset name mismatch", map[string]any{"body_dataset": req.DatasetName})
			}
			req.DatasetName = dataset
		}
		resp, err := db.Insert(r.Context(), req)
		if err != nil {
			httpError.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)
	}
}

func (o *OpenAPIServer) getRecordHandler(db datasets.Datasets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		record, err := db.Get(r.Context(), mux.Vars(r)["dataset"], mux.Vars(r)["id"])
		if err != nil {
			httpError.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(record)
	}
}

func (o *OpenAPIServer) deleteRecordHandler(db datasets.Datasets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Delete(r.Context(), mux.Vars(r)["dataset"], mux.Vars(r)["id"]); err != nil {
			httpError.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
