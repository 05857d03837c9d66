package main

import (
	"context"
	"io"
	"os"

	"github.com/autom8ter/datasets"
	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

func insertCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert <dataset> [file]",
		Short: "insert a json or yaml object (or an array of objects) into a dataset from a file or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return errors.Wrap(err, errors.Validation, "failed to open %s", args[1])
				}
				defer f.Close()
				in = f
			}
			bits, err := io.ReadAll(in)
			if err != nil {
				return errors.Wrap(err, errors.Internal, "failed to read input")
			}
			docs, err := parseDocuments(bits)
			if err != nil {
				return err
			}
			return withDB(cmd, v, func(ctx context.Context, _ *settings, db datasets.Datasets) error {
				var responses []*datasets.InsertRecordResponse
				for _, doc := range docs {
					resp, err := db.Insert(ctx, datasets.InsertRecordRequest{
						DatasetName: args[0],
						Data:        doc,
					})
					if err != nil {
						return err
					}
					responses = append(responses, resp)
				}
				return printJSON(cmd, responses)
			})
		},
	}
	return cmd
}

// parseDocuments parses a json or yaml object or an array of objects
func parseDocuments(bits []byte) ([]*datasets.Document, error) {
	jsonBits, err := util.YAMLToJSON(bits)
	if err != nil {
		return nil, errors.NewKind(errors.Validation, errors.InvalidJSON, "input is not valid json or yaml: %s", err.Error())
	}
	result := gjson.ParseBytes(jsonBits)
	if !result.IsArray() {
		doc, err := datasets.NewDocumentFromBytes(jsonBits)
		if err != nil {
			return nil, err
		}
		return []*datasets.Document{doc}, nil
	}
	var docs []*datasets.Document
	for _, r := range result.Array() {
		doc, err := datasets.NewDocumentFromBytes([]byte(r.Raw))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
