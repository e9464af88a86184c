package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vecrag/internal/app"
	"github.com/kailas-cloud/vecrag/internal/config"
	"github.com/kailas-cloud/vecrag/internal/logger"
	"github.com/kailas-cloud/vecrag/internal/version"
)

func main() {
	ctx := context.Background()

	rootCmd := NewRootCmd(version.String(), openFromConfig)
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

// openFromConfig builds the application from the config selected by --env.
func openFromConfig(cmd *cobra.Command) (*app.App, error) {
	env, _ := cmd.Flags().GetString("env")
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	lg, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	store, err := app.OpenStore(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, err
	}

	return app.New(&cfg, store, app.NewProvider(cfg.Embedding, lg), lg), nil
}
