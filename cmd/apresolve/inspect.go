package main

import (
	"github.com/spf13/cobra"

	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/jsonld"
	"github.com/pilacorp/go-activitypub-sdk/activitypub/common/schema"
)

type inspection struct {
	ID               string   `json:"id"`
	Types            []string `json:"types"`
	SupportedContext bool     `json:"supportedContext"`
	URL              string   `json:"url,omitempty"`
	AttributedTo     string   `json:"attributedTo,omitempty"`
	InReplyTo        string   `json:"inReplyTo,omitempty"`
	Tags             int      `json:"tags"`
	Valid            bool     `json:"valid"`
	Problem          string   `json:"problem,omitempty"`
}

func newInspectCmd() *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "inspect <file|->",
		Short: "Summarize a JSON-LD document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}

			out := inspection{
				ID:               doc.ID(),
				Types:            doc.Type(),
				SupportedContext: doc.IsSupportedContext(),
				URL:              jsonld.ResolveHref(doc["url"], mediaType),
				AttributedTo:     jsonld.ValueOrID(jsonld.FirstOfValue(doc["attributedTo"])),
				InReplyTo:        jsonld.ValueOrID(doc["inReplyTo"]),
				Tags:             len(jsonld.AsArray(doc["tag"])),
				Valid:            true,
			}
			if err := schema.ValidateObject(doc); err != nil {
				out.Valid = false
				out.Problem = err.Error()
			}

			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&mediaType, "media-type", jsonld.MediaTypeHTML, "preferred media type when picking the url")
	return cmd
}
