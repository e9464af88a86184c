package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecrag/internal/app"
)

func NewGetCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored document",
		Args:  cobra.ExactArgs(1),
		RunE:  makeGetRunner(open),
	}
}

func makeGetRunner(open opener) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		return withApp(cmd, open, func(a *app.App) error {
			doc, err := a.Documents.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get document: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"id":         doc.ID(),
					"text":       doc.Text(),
					"metadata":   doc.Metadata(),
					"created_at": doc.CreatedAt().Format(time.RFC3339),
					"dimensions": len(doc.Embedding()),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), doc.Text())
			return nil
		})
	}
}
