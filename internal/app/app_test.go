package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/dashboard/internal/cache"
	"github.com/abdulachik/dashboard/internal/config"
	"github.com/abdulachik/dashboard/internal/source"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		City:                "Chicago",
		Category:            "technology",
		StockSymbols:        []string{"AAPL"},
		ETFSymbols:          []string{"SPY"},
		CacheBackend:        backend,
		CachePath:           filepath.Join(dir, "cache.json"),
		DatabasePath:        filepath.Join(dir, "dashboard.db"),
		MaxWorkers:          8,
		RequestTimeout:      time.Second,
		StockRateLimitDelay: time.Millisecond,
	}
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{cache.BackendFile, cache.BackendSQLite, cache.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			a, err := New(context.Background(), testConfig(t, backend))
			require.NoError(t, err)
			t.Cleanup(func() { a.Close() })

			assert.Equal(t, backend, a.Store.Backend())
			assert.NotNil(t, a.Service)
			assert.NotNil(t, a.Health)
			assert.NotNil(t, a.Metrics)
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, "redis"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open cache")
}

func TestNew_RegistersMetrics(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, cache.BackendMemory))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	a.Metrics.RecordCache(false)

	count, err := testutil.GatherAndCount(a.Registry, "dashboard_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewSources_AllConfigured(t *testing.T) {
	sources := NewSources(testConfig(t, cache.BackendMemory))

	assert.NotNil(t, sources.Weather)
	assert.NotNil(t, sources.News)
	assert.NotNil(t, sources.Stocks)
	assert.NotNil(t, sources.Quotes)
	assert.Equal(t, "twitter", sources.Twitter.Name())
	assert.Equal(t, "reddit", sources.Reddit.Name())
}

func TestNewSources_StocksUseConfiguredKeys(t *testing.T) {
	cfg := testConfig(t, cache.BackendMemory)
	cfg.AlphaVantageAPIKey = "key"

	stocks, ok := NewSources(cfg).Stocks.(*source.StockClient)
	require.True(t, ok)
	assert.True(t, stocks.RateLimited())
}
