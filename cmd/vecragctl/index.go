package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecrag/internal/app"
)

func NewIndexCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the vector index",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ensure",
			Short: "Create the vector index when missing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, open, func(a *app.App) error {
					created, err := a.Index.Ensure(cmd.Context())
					if err != nil {
						return fmt.Errorf("ensure index: %w", err)
					}
					if created {
						fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", a.Index.Name())
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", a.Index.Name())
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "drop",
			Short: "Drop the vector index (documents are kept)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, open, func(a *app.App) error {
					if err := a.Index.Drop(cmd.Context()); err != nil {
						return fmt.Errorf("drop index: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s\n", a.Index.Name())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether the vector index exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, open, func(a *app.App) error {
					ok, err := a.Index.Exists(cmd.Context())
					if err != nil {
						return fmt.Errorf("index status: %w", err)
					}
					state := "missing"
					if ok {
						state = "present"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.Index.Name(), state)
					return nil
				})
			},
		},
	)
	return cmd
}
