package main

import (
	"context"

	"github.com/autom8ter/datasets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func queryCmd(v *viper.Viper) *cobra.Command {
	var req datasets.QueryRequest
	cmd := &cobra.Command{
		Use:   "query <dataset>",
		Short: "group and/or sort a dataset by any field and print the result as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.DatasetName = args[0]
			return withDB(cmd, v, func(ctx context.Context, _ *settings, db datasets.Datasets) error {
				resp, err := db.Query(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd, resp)
			})
		},
	}
	cmd.Flags().StringVarP(&req.GroupBy, "group-by", "g", "", "dot notation path of the field to group by")
	cmd.Flags().StringVarP(&req.SortBy, "sort-by", "s", "", "dot notation path of the field to sort by")
	cmd.Flags().StringVarP(&req.SortOrder, "order", "o", "asc", "sort order: asc or desc")
	return cmd
}

func fieldsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <dataset>",
		Short: "list the field paths present in a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, v, func(ctx context.Context, _ *settings, db datasets.Datasets) error {
				fields, err := db.Fields(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, fields)
			})
		},
	}
}
