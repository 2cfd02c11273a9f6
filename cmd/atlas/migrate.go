package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/industry-atlas/internal/cli"
	"github.com/Veraticus/industry-atlas/internal/storage"
)

func migrateCmd() *cobra.Command {
	var (
		status     bool
		purgeAfter time.Duration
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

With the postgres driver both the remote company schema and the local
session database are migrated.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			local, err := storage.NewSQLiteStorage(e.app.Database.Path, storage.WithTaxonomy(e.table))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			e.local = local

			if status {
				version, err := local.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\nSchema version: %d of %d\n",
					local.Path(), version, storage.ExpectedSchemaVersion)
				return nil
			}

			slog.Info("Running database migrations", "driver", e.app.Database.Driver, "database", local.Path())
			if err := local.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if _, err := e.companies(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			if purgeAfter > 0 {
				n, err := local.PurgeSessions(ctx, time.Now().Add(-purgeAfter))
				if err != nil {
					return err
				}
				slog.Info("Purged stale session values", "count", n)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Database migrations completed successfully!"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "show the current schema version without applying changes")
	cmd.Flags().DurationVar(&purgeAfter, "purge-sessions", 30*24*time.Hour, "drop session values older than this (0 to keep)")

	return cmd
}
