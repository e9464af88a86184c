package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecrag/internal/app"
	"github.com/kailas-cloud/vecrag/internal/domain/search/result"
)

// previewLen caps the text shown per hit in plain output.
const previewLen = 80

func NewQueryCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Find the documents most similar to a text",
		Args:  cobra.ExactArgs(1),
		RunE:  makeQueryRunner(open),
	}

	cmd.Flags().IntP("top-k", "k", 0, "Number of results (default from config)")
	return cmd
}

func makeQueryRunner(open opener) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		var topK *int
		if cmd.Flags().Changed("top-k") {
			k, _ := cmd.Flags().GetInt("top-k")
			topK = &k
		}

		return withApp(cmd, open, func(a *app.App) error {
			req, err := a.Query.NewRequest(args[0], topK)
			if err != nil {
				return err
			}
			results, err := a.Query.Search(cmd.Context(), &req)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			if asJSON {
				return outputResultsJSON(cmd, results)
			}
			for i := range results {
				r := &results[i]
				fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %s  %s\n", r.Score(), r.ID(), preview(r.Text()))
			}
			return nil
		})
	}
}

func outputResultsJSON(cmd *cobra.Command, results []result.Result) error {
	out := make([]map[string]any, 0, len(results))
	for i := range results {
		r := &results[i]
		out = append(out, map[string]any{
			"id":       r.ID(),
			"text":     r.Text(),
			"metadata": r.Metadata(),
			"score":    r.Score(),
		})
	}
	return writeJSON(cmd, map[string]any{"results": out})
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > previewLen {
		return string(r[:previewLen-1]) + "…"
	}
	return text
}
