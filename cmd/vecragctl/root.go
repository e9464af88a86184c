package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecrag/internal/app"
)

// opener builds the application for one command run.
type opener func(cmd *cobra.Command) (*app.App, error)

func NewRootCmd(version string, open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vecragctl",
		Short:         "Operate a vecrag document store",
		Long:          `Ingest JSON files, run similarity queries and manage the vector index without the HTTP API.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("env", "", "Config environment (local, dev, prod); defaults to $ENV")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	if open != nil {
		rootCmd.AddCommand(
			NewIngestCmd(open),
			NewQueryCmd(open),
			NewGetCmd(open),
			NewIndexCmd(open),
		)
	}

	return rootCmd
}

// withApp opens the application, runs fn and closes the store.
func withApp(cmd *cobra.Command, open opener, fn func(a *app.App) error) error {
	a, err := open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
