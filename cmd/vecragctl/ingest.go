package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecrag/internal/app"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
)

func NewIngestCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest documents from JSON files",
		Long: `Read each file (an array of documents or a single document object),
embed the documents that carry no embedding and store them.
The vector index is created first when missing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: makeIngestRunner(open),
	}
}

func makeIngestRunner(open opener) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		return withApp(cmd, open, func(a *app.App) error {
			if err := a.EnsureIndex(cmd.Context()); err != nil {
				return err
			}

			var total ingestuc.Result
			for _, path := range args {
				res, err := a.Ingest.Ingest(cmd.Context(), ingestuc.LocalFileSource{Path: path})
				if err != nil {
					return fmt.Errorf("ingest %s: %w", path, err)
				}
				total.Inserted += res.Inserted
				total.Skipped += res.Skipped

				if !asJSON {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: inserted %d, skipped %d\n", path, res.Inserted, res.Skipped)
				}
			}

			if asJSON {
				return writeJSON(cmd, map[string]int{
					"inserted": total.Inserted,
					"skipped":  total.Skipped,
				})
			}
			return nil
		})
	}
}
