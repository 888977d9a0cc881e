package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/dashboard/internal/config"
	"github.com/abdulachik/dashboard/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Run all pending migrations for the sqlite cache backend database.`,
	RunE:  runMigrate,
}

var migrateStatusOnly bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatusOnly, "status", false, "List applied and pending migrations without running them")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig((*config.Config).Validate)
	if err != nil {
		return err
	}

	if cfg.CacheBackend != "sqlite" {
		slog.Warn("cache backend does not use the database", "backend", cfg.CacheBackend)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if migrateStatusOnly {
		status, err := store.Status(ctx)
		if err != nil {
			return fmt.Errorf("read migration status: %w", err)
		}
		fmt.Printf("Database: %s\n", cfg.DatabasePath)
		for _, f := range status.Applied {
			fmt.Printf("  applied  %s\n", f)
		}
		for _, f := range status.Pending {
			fmt.Printf("  pending  %s\n", f)
		}
		return nil
	}

	slog.Info("running migrations", "path", cfg.DatabasePath)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("migrations complete")
	return nil
}
