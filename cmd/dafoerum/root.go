package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dafoerum/internal/config"
	"dafoerum/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "dafoerum",
	Short: "Dafoerum web forum",
	Long:  "dafoerum serves the forum website and its JSON API.",
	// Errors are logged by the commands themselves.
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(e2eCmd)
}

// setup loads the configuration and builds the process logger.
func setup() (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(os.Stdout, cfg.Location(), cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
