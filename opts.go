package datasets

// Opt is an option for configuring a Datasets instance
type Opt func(s *service)

// WithLogger sets the logger. By default a zap logger at the config's log level is used.
func WithLogger(logger Logger) Opt {
	return func(s *service) {
		s.logger = logger
	}
}

// WithStore overrides the store opened from the config's provider
func WithStore(store Store) Opt {
	return func(s *service) {
		s.store = store
	}
}
