package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "v0.0.0"

func newRootCmd() *cobra.Command {
	v := viper.New()
	setDefaults(v)
	cmd := &cobra.Command{
		Use:           "datasets",
		Short:         "store json records in named datasets and group or sort them by any field",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to a config file (defaults to ./datasets.yaml if present)")
	flags.String("provider", "badger", "kv provider (badger or tikv)")
	flags.String("provider-params", "", "provider params as json or yaml, e.g. {\"storage_path\": \"./datasets-data\"}")
	flags.String("log-level", "info", "log level (debug, info, warn or error)")
	for key, flag := range map[string]string{
		keyConfig:         "config",
		keyProvider:       "provider",
		keyProviderParams: "provider-params",
		keyLogLevel:       "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	cmd.AddCommand(serveCmd(v), insertCmd(v), queryCmd(v), fieldsCmd(v))
	return cmd
}
