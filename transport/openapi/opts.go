package openapi

import "github.com/autom8ter/datasets"

// Opt is an option for configuring an OpenAPIServer
type Opt func(*OpenAPIServer)

// WithLogger sets the server's logger
func WithLogger(logger datasets.Logger) Opt {
	return func(o *OpenAPIServer) {
		o.logger = logger
	}
}
