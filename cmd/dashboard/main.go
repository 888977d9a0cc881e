package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abdulachik/dashboard/internal/config"
)

var logLevel = new(slog.LevelVar)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "A personal dashboard of weather, news, markets and social trends",
	Long: `Dashboard gathers current weather, forecasts, news headlines, stock and ETF
quotes, a quote of the day and trending social posts into one snapshot, cached
for five minutes, and renders it in the terminal or serves it over HTTP.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

// loadConfig loads and validates configuration and applies its log level.
func loadConfig(validate func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	level, _ := cfg.SlogLevel()
	logLevel.Set(level)

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
