package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/transport/openapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the datasets http api",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return withDB(cmd, v, func(ctx context.Context, s *settings, db datasets.Datasets) error {
				oapi, err := openapi.New(s.openapiConfig(version))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "starting openapi http server on port :%v\n", s.Port)
				return oapi.Serve(ctx, db)
			})
		},
	}
	flags := cmd.Flags()
	flags.Int("port", 8080, "port to serve on")
	flags.StringSlice("allow-origins", []string{"*"}, "allowed CORS origins")
	flags.Duration("read-timeout", 0, "http read timeout")
	flags.Duration("write-timeout", 0, "http write timeout")
	_ = v.BindPFlag(keyPort, flags.Lookup("port"))
	_ = v.BindPFlag(keyAllowOrigins, flags.Lookup("allow-origins"))
	_ = v.BindPFlag(keyReadTimeout, flags.Lookup("read-timeout"))
	_ = v.BindPFlag(keyWriteTimeout, flags.Lookup("write-timeout"))
	return cmd
}
