package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/jsonmap"
	"github.com/pilacorp/go-activitypub-sdk/activitypub/resolver"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	var noVerify, byID, validate bool

	cmd := &cobra.Command{
		Use:   "fetch <uri>",
		Short: "Fetch a remote object and verify its identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noVerify && byID {
				return errors.New("--no-verify and --by-id are mutually exclusive")
			}

			var opts []resolver.Opt
			if validate {
				opts = append(opts, resolver.WithSchemaValidation())
			}
			r := resolver.NewFromConfig(root.cfg, root.logger, opts...)

			var (
				doc jsonmap.JSONMap
				err error
			)
			switch {
			case byID:
				doc, err = r.FetchResourceByID(cmd.Context(), args[0])
			default:
				doc, err = r.FetchResource(cmd.Context(), args[0], !noVerify)
			}
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "return the document without checking its id")
	cmd.Flags().BoolVar(&byID, "by-id", false, "treat the argument as the canonical id and fetch it once")
	cmd.Flags().BoolVar(&validate, "validate", false, "reject documents that are not ActivityStreams objects")
	return cmd
}
