package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/dashboard/internal/app"
	"github.com/abdulachik/dashboard/internal/config"
	"github.com/abdulachik/dashboard/internal/dashboard"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show cached snapshot status",
	Long:  `Display the cache backend, the age of the stored snapshot, whether it is still fresh and which slots it is missing.`,
	RunE:  runCache,
}

var cacheClear bool

func init() {
	cacheCmd.Flags().BoolVar(&cacheClear, "clear", false, "Delete the cached snapshot")
	rootCmd.AddCommand(cacheCmd)
}

func runCache(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig((*config.Config).Validate)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if cacheClear {
		if err := a.Store.Clear(ctx); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Printf("Cleared %s cache.\n", a.Store.Backend())
		return nil
	}

	fmt.Println("=== Dashboard Cache ===")
	fmt.Println()
	fmt.Printf("Backend: %s\n", a.Store.Backend())
	switch a.Store.Backend() {
	case "file":
		fmt.Printf("Path: %s\n", cfg.CachePath)
	case "sqlite":
		fmt.Printf("Database: %s\n", cfg.DatabasePath)
	}
	fmt.Println()

	entry, age, err := a.Service.Peek(ctx)
	switch {
	case errors.Is(err, dashboard.ErrMiss):
		fmt.Println("No cached snapshot.")
		return nil
	case err != nil && entry == nil:
		fmt.Printf("Cached snapshot unreadable: %v\n", err)
		return nil
	case err != nil:
		fmt.Printf("Stored at: %s (unparseable: %v)\n", entry.Timestamp, err)
	default:
		fmt.Printf("Stored at: %s\n", entry.Timestamp)
		fmt.Printf("Age: %s\n", age.Round(time.Second))
		if age < dashboard.FreshnessWindow {
			fmt.Printf("Fresh: yes (expires in %s)\n", (dashboard.FreshnessWindow - age).Round(time.Second))
		} else {
			fmt.Println("Fresh: no")
		}
	}

	fmt.Printf("Category: %s\n", entry.Data.Category)

	missing := entry.Data.Unavailable()
	if len(missing) == 0 {
		fmt.Println("Unavailable slots: none")
		return nil
	}
	fmt.Println("Unavailable slots:")
	for _, slot := range missing {
		fmt.Printf("  %s\n", slot)
	}

	return nil
}
