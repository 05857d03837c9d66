package datasets

import (
	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/util"
)

// Config configures a Datasets instance
type Config struct {
	// Provider is the name of a registered kv provider (badger or tikv)
	Provider string `json:"provider" validate:"required"`
	// Params are provider specific parameters, e.g. storage_path for badger or pd_addr for tikv
	Params map[string]any `json:"params"`
	// LogLevel is one of debug, info, warn or error
	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

// Validate validates the config
func (c Config) Validate() error {
	return errors.Wrap(util.ValidateStruct(&c), errors.Validation, "invalid config")
}

// ConfigFromMap decodes a config from a generic map, e.g. one read from yaml
func ConfigFromMap(values map[string]any) (Config, error) {
	var c Config
	if err := util.Decode(values, &c); err != nil {
		return c, errors.Wrap(err, errors.Validation, "failed to decode config")
	}
	return c, c.Validate()
}
