package openapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/transport/openapi/httpError"
	"github.com/autom8ter/datasets/util"
)

// HealthResponse reports that the api is running
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (o *OpenAPIServer) specHandler() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".json") {
			bits, err := util.YAMLToJSON(o.spec)
			if err != nil {
				httpError.Error(w, r, errors.Wrap(err, errors.Internal, "failed to convert spec from yaml to json"))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(bits)
		} else {
			w.Header().Set("Content-Type", "application/yaml")
			w.WriteHeader(http.StatusOK)
			w.Write(o.spec)
		}
	})
}

func (o *OpenAPIServer) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(&HealthResponse{
			Status:  "UP",
			Message: "Dataset API is running",
		})
	}
}
