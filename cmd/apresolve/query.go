package main

import (
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <file|-> <jsonpath>",
		Short: "Evaluate a JSONPath expression against a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}

			expr := strings.TrimSpace(args[1])
			if expr == "" {
				return fmt.Errorf("empty jsonpath expression")
			}

			val, err := jsonpath.Get(expr, map[string]interface{}(doc))
			if err != nil {
				return fmt.Errorf("failed to evaluate %q: %w", expr, err)
			}

			return writeJSON(cmd.OutOrStdout(), val)
		},
	}
}
