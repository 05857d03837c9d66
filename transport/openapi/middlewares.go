package openapi

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/transport/openapi/httpError"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/gorilla/mux"
	"github.com/segmentio/ksuid"
)

// RequestIDHeader is the header that carries a request's id
const RequestIDHeader = "X-Request-Id"

// recoveryWare logs panics raised further down the chain and answers them with an internal error response
func (o *OpenAPIServer) recoveryWare() mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				o.logger.Error(r.Context(), "recovered from panic", errors.New(errors.Internal, "%v", rec), map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
					"stack":  string(debug.Stack()),
				})
				httpError.Error(w, r, errors.NewKind(errors.Internal, errors.InternalError, "An unexpected error occurred"))
			}()
			handler.ServeHTTP(w, r)
		})
	}
}

// requestIDWare adds the inbound request id (or a new one) to the response headers and the request metadata
func (o *OpenAPIServer) requestIDWare() mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = ksuid.New().String()
			}
			w.Header().Set(RequestIDHeader, id)
			handler.ServeHTTP(w, r.WithContext(datasets.SetMetadataRequestID(r.Context(), id)))
		})
	}
}

// openAPIValidator validates inbound requests against the openapi schema
// adds route to the inbound metadata
// adds dataset to the inbound metadata if the route has one
func (o *OpenAPIServer) openAPIValidator() mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := o.openapiRouter.FindRoute(r)
			if err != nil {
				httpError.Error(w, r, errors.Wrap(err, errors.NotFound, "route not found"))
				return
			}
			requestValidationInput := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{AuthenticationFunc: func(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
					return nil
				}},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), requestValidationInput); err != nil {
				httpError.Error(w, r, errors.NewKind(errors.Validation, errors.InvalidJSON, "Request failed validation").WithDetails(err.Error()))
				return
			}
			md := map[string]any{
				datasets.MetadataKeyRoute: route.Path,
			}
			if dataset, ok := pathParams["dataset"]; ok {
				md[datasets.MetadataKeyDataset] = dataset
			}
			handler.ServeHTTP(w, r.WithContext(datasets.SetMetadataValues(r.Context(), md)))
		})
	}
}

// loggerWare logs every request once it has been served
func (o *OpenAPIServer) loggerWare() mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			handler.ServeHTTP(rec, r)
			tags := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(now).Milliseconds(),
			}
			if rec.status >= http.StatusInternalServerError {
				o.logger.Warn(r.Context(), "request failed", tags)
				return
			}
			o.logger.Info(r.Context(), "request served", tags)
		})
	}
}

// statusRecorder records the status code written to the response
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Hijack lets websocket upgrades take over the connection
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New(errors.Internal, "response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Flush flushes buffered data to the client
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
