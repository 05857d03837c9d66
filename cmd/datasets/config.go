package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/errors"
	_ "github.com/autom8ter/datasets/kv/badger"
	_ "github.com/autom8ter/datasets/kv/tikv"
	"github.com/autom8ter/datasets/transport/openapi"
	"github.com/autom8ter/datasets/util"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyConfig         = "config"
	keyProvider       = "provider"
	keyProviderParams = "provider_params"
	keyPort           = "port"
	keyLogLevel       = "log_level"
	keyAllowOrigins   = "allow_origins"
	keyReadTimeout    = "read_timeout"
	keyWriteTimeout   = "write_timeout"
)

// settings are the resolved flag, environment and config file values
type settings struct {
	Provider       string
	ProviderParams map[string]any
	Port           int
	LogLevel       string
	AllowOrigins   []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyProvider, "badger")
	v.SetDefault(keyProviderParams, map[string]any{"storage_path": "./datasets-data"})
	v.SetDefault(keyPort, 8080)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyAllowOrigins, []string{"*"})
	v.SetDefault(keyReadTimeout, 30*time.Second)
	v.SetDefault(keyWriteTimeout, 30*time.Second)
}

// loadSettings reads the optional config file, then resolves every key with flags taking precedence over
// DATASETS_ environment variables, the config file and the defaults
func loadSettings(v *viper.Viper) (*settings, error) {
	v.SetEnvPrefix("DATASETS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.Validation, "failed to read config file %s", path)
		}
	} else {
		v.SetConfigName("datasets")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(err, errors.Validation, "failed to read datasets.yaml")
			}
		}
	}
	params, err := providerParams(v.Get(keyProviderParams))
	if err != nil {
		return nil, err
	}
	return &settings{
		Provider:       v.GetString(keyProvider),
		ProviderParams: params,
		Port:           v.GetInt(keyPort),
		LogLevel:       v.GetString(keyLogLevel),
		AllowOrigins:   v.GetStringSlice(keyAllowOrigins),
		ReadTimeout:    v.GetDuration(keyReadTimeout),
		WriteTimeout:   v.GetDuration(keyWriteTimeout),
	}, nil
}

// providerParams accepts params as a map from a config file or as an inline json/yaml string from a flag or env var
func providerParams(value any) (map[string]any, error) {
	raw, ok := value.(string)
	if !ok {
		params, err := cast.ToStringMapE(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "invalid %s", keyProviderParams)
		}
		return params, nil
	}
	params := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return params, nil
	}
	bits, err := util.YAMLToJSON([]byte(raw))
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid %s", keyProviderParams)
	}
	if err := json.Unmarshal(bits, &params); err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid %s", keyProviderParams)
	}
	return params, nil
}

func (s *settings) datasetsConfig() (datasets.Config, error) {
	return datasets.ConfigFromMap(map[string]any{
		"provider":  s.Provider,
		"params":    s.ProviderParams,
		"log_level": s.LogLevel,
	})
}

func (s *settings) openapiConfig(version string) openapi.Config {
	return openapi.Config{
		Title:        "datasets",
		Version:      version,
		Description:  "group and sort json datasets by any field",
		Port:         s.Port,
		AllowOrigins: s.AllowOrigins,
		LogLevel:     s.LogLevel,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
	}
}

// withDB resolves the settings, opens a Datasets instance and passes it to fn
func withDB(cmd *cobra.Command, v *viper.Viper, fn func(ctx context.Context, s *settings, db datasets.Datasets) error) error {
	s, err := loadSettings(v)
	if err != nil {
		return err
	}
	cfg, err := s.datasetsConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := datasets.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)
	return fn(ctx, s, db)
}

func printJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
