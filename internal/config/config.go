package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abdulachik/dashboard/internal/source"
)

// Validation errors.
var (
	ErrInvalidBackend  = errors.New("CACHE_BACKEND must be one of: file, sqlite, memory")
	ErrInvalidWorkers  = errors.New("MAX_WORKERS must be at least 1")
	ErrInvalidTimeout  = errors.New("REQUEST_TIMEOUT must be positive")
	ErrInvalidDelay    = errors.New("STOCK_RATE_LIMIT_DELAY must not be negative")
	ErrInvalidPort     = errors.New("PORT must be between 1 and 65535")
	ErrMissingCity     = errors.New("DASHBOARD_CITY is required")
	ErrInvalidLogLevel = errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	ErrEmptyWatchlist  = errors.New("stock and ETF watchlists must not be empty")
)

// Config holds all application configuration.
type Config struct {
	// Vendor credentials
	OpenWeatherAPIKey  string
	NewsAPIKey         string
	AlphaVantageAPIKey string
	PolygonAPIKey      string
	TwitterBearerToken string
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string

	// Dashboard
	City         string
	Category     string
	StockSymbols []string
	ETFSymbols   []string
	NewsCount    int
	TrendCount   int
	HourlyHours  int

	// Cache
	CacheBackend string
	CachePath    string
	DatabasePath string

	// Fetching
	MaxWorkers          int
	RequestTimeout      time.Duration
	StockRateLimitDelay time.Duration // 0 disables the pause between Alpha Vantage calls
	RefreshInterval     time.Duration // 0 disables background refresh

	// Server
	Port int

	// Logging
	LogLevel string

	// ConfigFile is the optional YAML watchlist file (DASHBOARD_CONFIG).
	ConfigFile string
}

// FileConfig is the shape of the optional YAML file.
type FileConfig struct {
	City        string   `yaml:"city"`
	Category    string   `yaml:"category"`
	Stocks      []string `yaml:"stocks"`
	ETFs        []string `yaml:"etfs"`
	NewsCount   int      `yaml:"news_count"`
	TrendCount  int      `yaml:"trend_count"`
	HourlyHours int      `yaml:"hourly_hours"`
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		NewsAPIKey:         getEnv("NEWS_API_KEY", ""),
		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_API_KEY", ""),
		PolygonAPIKey:      getEnv("POLYGON_API_KEY", ""),
		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUserAgent:    getEnv("REDDIT_USER_AGENT", "dashboard:v1.0.0"),
		City:               getEnv("DASHBOARD_CITY", "Chicago"),
		Category:           getEnv("DASHBOARD_CATEGORY", source.DefaultCategory),
		StockSymbols:       append([]string(nil), source.MostActiveSymbols...),
		ETFSymbols:         append([]string(nil), source.PopularETFs...),
		NewsCount:          5,
		TrendCount:         3,
		HourlyHours:        24,
		CacheBackend:       strings.ToLower(getEnv("CACHE_BACKEND", "file")),
		CachePath:          getEnv("CACHE_PATH", "dashboard_cache.json"),
		DatabasePath:       getEnv("DATABASE_PATH", "data/dashboard.db"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ConfigFile:         getEnv("DASHBOARD_CONFIG", ""),
	}

	var err error
	if cfg.MaxWorkers, err = getEnvInt("MAX_WORKERS", 8); err != nil {
		return nil, err
	}
	if cfg.Port, err = getEnvInt("PORT", 7000); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.StockRateLimitDelay, err = getEnvDuration("STOCK_RATE_LIMIT_DELAY", source.DefaultRateLimitDelay); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getEnvDuration("REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}

	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyFile overlays the YAML file. Explicit DASHBOARD_CITY and
// DASHBOARD_CATEGORY variables take precedence over the file.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if _, set := os.LookupEnv("DASHBOARD_CITY"); !set && fc.City != "" {
		c.City = fc.City
	}
	if _, set := os.LookupEnv("DASHBOARD_CATEGORY"); !set && fc.Category != "" {
		c.Category = fc.Category
	}
	if len(fc.Stocks) > 0 {
		c.StockSymbols = normalizeSymbols(fc.Stocks)
	}
	if len(fc.ETFs) > 0 {
		c.ETFSymbols = normalizeSymbols(fc.ETFs)
	}
	if fc.NewsCount > 0 {
		c.NewsCount = fc.NewsCount
	}
	if fc.TrendCount > 0 {
		c.TrendCount = fc.TrendCount
	}
	if fc.HourlyHours > 0 {
		c.HourlyHours = fc.HourlyHours
	}

	slog.Debug("loaded config file", "path", path, "stocks", len(c.StockSymbols), "etfs", len(c.ETFSymbols))
	return nil
}

// Validate checks configuration shared by every command.
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidBackend, c.CacheBackend)
	}
	if c.MaxWorkers < 1 {
		return ErrInvalidWorkers
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.StockRateLimitDelay < 0 {
		return ErrInvalidDelay
	}
	if strings.TrimSpace(c.City) == "" {
		return ErrMissingCity
	}
	if len(c.StockSymbols) == 0 || len(c.ETFSymbols) == 0 {
		return ErrEmptyWatchlist
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ValidateForServe checks configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w (got %d)", ErrInvalidPort, c.Port)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w (got %q)", ErrInvalidLogLevel, c.LogLevel)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func normalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
