package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/processor"
)

func newCanonicalizeCmd() *cobra.Command {
	var (
		digest   bool
		contexts []string
	)

	cmd := &cobra.Command{
		Use:   "canonicalize <file|->",
		Short: "Print the canonical N-Quads of a JSON-LD document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}

			var opts []processor.ProcessorOpt
			for _, c := range contexts {
				opts = append(opts, processor.WithExternalContext(c))
			}

			if digest {
				sum, err := doc.Canonicalize(opts...)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sum))
				return err
			}

			nquads, err := doc.CanonicalForm(opts...)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(nquads)
			return err
		},
	}

	cmd.Flags().BoolVar(&digest, "digest", false, "print the SHA-256 digest instead of the N-Quads")
	cmd.Flags().StringSliceVar(&contexts, "context", nil, "additional context URL to merge before canonicalizing")
	return cmd
}
