package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdulachik/dashboard/internal/app"
	"github.com/abdulachik/dashboard/internal/config"
	"github.com/abdulachik/dashboard/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard in the terminal",
	Long: `Print the dashboard snapshot in the terminal. A cached snapshot younger
than five minutes is reused unless --no-cache is set.`,
	RunE: runReport,
}

var (
	reportNoCache  bool
	reportCategory string
	reportCity     string
	reportWidth    int
)

func init() {
	reportCmd.Flags().BoolVar(&reportNoCache, "no-cache", false, "Ignore the cached snapshot and fetch fresh data")
	reportCmd.Flags().StringVar(&reportCategory, "category", "", "News and social category (default from DASHBOARD_CATEGORY)")
	reportCmd.Flags().StringVar(&reportCity, "city", "", "City for weather (default from DASHBOARD_CITY)")
	reportCmd.Flags().IntVar(&reportWidth, "width", 100, "Maximum line width")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig((*config.Config).Validate)
	if err != nil {
		return err
	}
	if reportCity != "" {
		cfg.City = reportCity
	}
	category := cfg.Category
	if reportCategory != "" {
		category = reportCategory
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.Service.GetOrRefresh(ctx, !reportNoCache, category)

	return report.Render(os.Stdout, snap, report.Options{
		Width:      reportWidth,
		StockOrder: cfg.StockSymbols,
		ETFOrder:   cfg.ETFSymbols,
	})
}
