package httpError

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/autom8ter/datasets/errors"
)

// TimestampFormat is the layout of ErrorResponse.Timestamp
const TimestampFormat = "2006-01-02T15:04:05"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Timestamp string      `json:"timestamp"`
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	Message   string      `json:"message,omitempty"`
	Details   []string    `json:"details,omitempty"`
	Path      string      `json:"path,omitempty"`
	Code      errors.Kind `json:"code,omitempty"`
}

// NewErrorResponse converts err into an ErrorResponse for the request
func NewErrorResponse(r *http.Request, err error) *ErrorResponse {
	status := http.StatusInternalServerError
	// remove the internal error
	var e = errors.Extract(err).RemoveError()
	if cde := e.Code; cde >= 400 && cde < 600 {
		status = int(cde)
	}
	kind := e.Kind
	if kind == "" && status == http.StatusInternalServerError {
		kind = errors.InternalError
	}
	msg := e.Message()
	if status == http.StatusInternalServerError && msg == "" {
		msg = "An unexpected error occurred"
	}
	resp := &ErrorResponse{
		Timestamp: time.Now().Format(TimestampFormat),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   msg,
		Details:   e.Details,
		Code:      kind,
	}
	if r != nil {
		resp.Path = r.URL.Path
	}
	return resp
}

// Error writes err to the response as json
func Error(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}
