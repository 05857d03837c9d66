package openapi

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/util"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

//go:embed openapi.yaml.tmpl
var openapiTemplate string

// Config are custom params for serving the datasets api
type Config struct {
	Title        string        `json:"title" yaml:"title" validate:"required"`
	Version      string        `json:"version" yaml:"version" validate:"required"`
	Description  string        `json:"description" yaml:"description" validate:"required"`
	Port         int           `json:"port" yaml:"port" validate:"required"`
	AllowOrigins []string      `json:"allow_origins" yaml:"allow_origins"`
	LogLevel     string        `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// OpenAPIServer serves a Datasets instance over http
type OpenAPIServer struct {
	params        Config
	router        *mux.Router
	upgrader      websocket.Upgrader
	spec          []byte
	openapiRouter routers.Router
	logger        datasets.Logger
}

// New creates a new openapi server
func New(params Config, opts ...Opt) (*OpenAPIServer, error) {
	if err := util.ValidateStruct(params); err != nil {
		return nil, err
	}
	if len(params.AllowOrigins) == 0 {
		params.AllowOrigins = []string{"*"}
	}
	o := &OpenAPIServer{
		params:   params,
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		l, err := datasets.NewLogger(params.LogLevel, map[string]any{"component": "openapi"})
		if err != nil {
			return nil, err
		}
		o.logger = l
	}
	return o, nil
}

func getSpec(config Config) ([]byte, error) {
	t, err := template.New("").Funcs(sprig.TxtFuncMap()).Parse(openapiTemplate)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	err = t.Execute(buf, map[string]any{
		"title":       config.Title,
		"description": config.Description,
		"version":     config.Version,
		"sort_orders": []string{"asc", "ascending", "desc", "descending"},
		"operations": []datasets.Operation{
			datasets.OperationGroupBy,
			datasets.OperationSortBy,
			datasets.OperationGroupByThenSort,
		},
		"error_kinds": errors.Kinds(),
		"missing_key": datasets.MissingGroupKey,
		"null_key":    datasets.NullGroupKey,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RegisterRoutes renders the openapi specification and registers the api's routes against db
func (o *OpenAPIServer) RegisterRoutes(ctx context.Context, db datasets.Datasets) error {
	if err := o.loadSpec(); err != nil {
		return err
	}
	mwares := []mux.MiddlewareFunc{
		o.recoveryWare(),
		handlers.CORS(
			handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
			handlers.AllowedOrigins(o.params.AllowOrigins),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		),
		o.requestIDWare(),
		o.loggerWare(),
		o.openAPIValidator(),
	}
	o.router.Use(mwares...)
	o.router.HandleFunc("/openapi.yaml", o.specHandler()).Methods(http.MethodGet)
	o.router.HandleFunc("/openapi.json", o.specHandler()).Methods(http.MethodGet)
	o.router.HandleFunc("/api/datasets/health", o.healthHandler()).Methods(http.MethodGet)
	o.router.HandleFunc("/api/datasets/{dataset}/record", o.insertHandler(db)).Methods(http.MethodPost)
	o.router.HandleFunc("/api/datasets/{dataset}/query", o.queryHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/datasets/{dataset}/records/{id}", o.getRecordHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/datasets/{dataset}/records/{id}", o.deleteRecordHandler(db)).Methods(http.MethodDelete)
	o.router.HandleFunc("/api/datasets/{dataset}/fields", o.fieldsHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/datasets/{dataset}/watch", o.watchHandler(db)).Methods(http.MethodGet)
	o.logger.Debug(ctx, "registered routes", map[string]any{"port": o.params.Port})
	return nil
}

func (o *OpenAPIServer) loadSpec() error {
	spec, err := getSpec(o.params)
	if err != nil {
		return err
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return err
	}
	if err := doc.Validate(loader.Context); err != nil {
		return err
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return err
	}
	o.spec = spec
	o.openapiRouter = router
	return nil
}

// Spec returns the openapi specification in yaml
func (o *OpenAPIServer) Spec() ([]byte, error) {
	if o.spec == nil {
		return getSpec(o.params)
	}
	return o.spec, nil
}

// Handler returns the server's http handler. RegisterRoutes must be called first.
func (o *OpenAPIServer) Handler() http.Handler {
	return o.router
}

// Serve starts an openapi http server serving the datasets until the context is cancelled
func (o *OpenAPIServer) Serve(ctx context.Context, db datasets.Datasets) error {
	defer o.logger.Sync()
	if err := o.RegisterRoutes(ctx, db); err != nil {
		return err
	}
	server := &http.Server{
		Addr:         fmt.Sprintf(":%v", o.params.Port),
		Handler:      o.router,
		ReadTimeout:  o.params.ReadTimeout,
		WriteTimeout: o.params.WriteTimeout,
	}
	egp, ctx := errgroup.WithContext(ctx)
	egp.Go(func() error {
		o.logger.Info(ctx, "starting server", map[string]any{"port": o.params.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	egp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		o.logger.Info(shutdownCtx, "shutting down server", nil)
		return server.Shutdown(shutdownCtx)
	})
	return egp.Wait()
}

// Logger returns the openapi logging instance
func (o *OpenAPIServer) Logger() datasets.Logger {
	return o.logger
}
