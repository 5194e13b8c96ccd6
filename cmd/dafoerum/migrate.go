package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the store schema",
	Long:  "Create the PostgreSQL tables or the MongoDB indexes for the configured STORE_DRIVER. Safe to run repeatedly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		_, closeStore, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Error("migrate_failed", slog.String("error", err.Error()))
			return err
		}
		defer closeStore()

		logger.Info("migrate_done", slog.String("driver", cfg.StoreDriver))
		return nil
	},
}
