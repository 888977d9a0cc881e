// Package app wires configuration into the dashboard's runtime dependencies.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/abdulachik/dashboard/internal/cache"
	"github.com/abdulachik/dashboard/internal/config"
	"github.com/abdulachik/dashboard/internal/dashboard"
	"github.com/abdulachik/dashboard/internal/health"
	"github.com/abdulachik/dashboard/internal/source"
	"github.com/abdulachik/dashboard/internal/telemetry"
)

// App is the main application container holding all dependencies.
type App struct {
	Config       *config.Config
	Store        cache.Store
	Service      *dashboard.Service
	Orchestrator *dashboard.Orchestrator
	Health       *health.Health
	Metrics      *telemetry.PrometheusCollector
	Registry     *prometheus.Registry
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := cache.Open(ctx, cache.Config{
		Backend:      cfg.CacheBackend,
		FilePath:     cfg.CachePath,
		DatabasePath: cfg.DatabasePath,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := telemetry.NewPrometheusCollector(registry)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	h := health.New()

	orch := dashboard.NewOrchestrator(dashboard.OrchestratorConfig{
		Sources:      NewSources(cfg),
		City:         cfg.City,
		Workers:      cfg.MaxWorkers,
		NewsCount:    cfg.NewsCount,
		TrendCount:   cfg.TrendCount,
		HourlyHours:  cfg.HourlyHours,
		StockSymbols: cfg.StockSymbols,
		ETFSymbols:   cfg.ETFSymbols,
		Recorders:    []dashboard.Recorder{h, metrics},
	})

	svc := dashboard.NewService(dashboard.ServiceConfig{
		Runner:   orch,
		Store:    store,
		Recorder: metrics,
	})

	return &App{
		Config:       cfg,
		Store:        store,
		Service:      svc,
		Orchestrator: orch,
		Health:       h,
		Metrics:      metrics,
		Registry:     registry,
	}, nil
}

// NewSources builds one adapter per vendor from the configured credentials.
func NewSources(cfg *config.Config) dashboard.Sources {
	return dashboard.Sources{
		Weather: source.NewWeatherClient(source.WeatherConfig{
			APIKey:  cfg.OpenWeatherAPIKey,
			Timeout: cfg.RequestTimeout,
		}),
		News: source.NewNewsClient(source.NewsConfig{
			APIKey:  cfg.NewsAPIKey,
			Timeout: cfg.RequestTimeout,
		}),
		Stocks: source.NewStockClient(source.StockConfig{
			AlphaVantageKey: cfg.AlphaVantageAPIKey,
			PolygonKey:      cfg.PolygonAPIKey,
			RateLimitDelay:  cfg.StockRateLimitDelay,
			Timeout:         cfg.RequestTimeout,
		}),
		Quotes: source.NewQuoteClient(source.QuoteConfig{
			Timeout: cfg.RequestTimeout,
		}),
		Twitter: source.NewTwitterClient(source.TwitterConfig{
			BearerToken: cfg.TwitterBearerToken,
			Timeout:     cfg.RequestTimeout,
		}),
		Reddit: source.NewRedditClient(source.RedditConfig{
			ClientID:     cfg.RedditClientID,
			ClientSecret: cfg.RedditClientSecret,
			UserAgent:    cfg.RedditUserAgent,
			Timeout:      cfg.RequestTimeout,
		}),
	}
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
