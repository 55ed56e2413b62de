package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/brokerage-ledger/src/internal/config"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the SQL migrations to the configured Postgres database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.SetLevel(cfg.LogLevel)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		logger.Info("migrations completed successfully", logger.Fields{"dir": cfg.MigrationsDir})
		return nil
	},
}
