package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	alphaVantageBaseURL = "https://www.alphavantage.co/query"
	polygonBaseURL      = "https://api.polygon.io/v2"

	// alphaVantagePlaceholder is the value shipped in example .env files.
	alphaVantagePlaceholder = "your_alphavantage_api_key"

	// DefaultRateLimitDelay keeps Alpha Vantage's free tier at 5 calls/min.
	DefaultRateLimitDelay = 12 * time.Second
)

// MostActiveSymbols is the default watchlist of heavily traded stocks.
var MostActiveSymbols = []string{"AAPL", "MSFT", "NVDA", "GOOGL", "AMZN", "TSLA", "META", "AMD", "NFLX", "ADBE"}

// PopularETFs is the default ETF watchlist.
var PopularETFs = []string{"SPY", "QQQ", "VTI", "IWM", "EFA", "GLD", "TLT", "XLF", "XLK", "XLE"}

// StockClient quotes tickers from Alpha Vantage, falling back to Polygon.io.
type StockClient struct {
	alphaVantage    *vendor
	polygon         *vendor
	alphaVantageKey string
	polygonKey      string
	alphaURL        string
	polygonURL      string
	delay           time.Duration
	sleep           func(ctx context.Context, d time.Duration)
}

// StockConfig holds configuration for the stock client.
type StockConfig struct {
	AlphaVantageKey     string
	PolygonKey          string
	AlphaVantageBaseURL string
	PolygonBaseURL      string
	// RateLimitDelay is the pause between Alpha Vantage calls. Zero disables it.
	RateLimitDelay      time.Duration
	Timeout             time.Duration
	HTTPClient          *http.Client
}

// NewStockClient creates a new stock client.
func NewStockClient(cfg StockConfig) *StockClient {
	alphaURL := cfg.AlphaVantageBaseURL
	if alphaURL == "" {
		alphaURL = alphaVantageBaseURL
	}
	polyURL := cfg.PolygonBaseURL
	if polyURL == "" {
		polyURL = polygonBaseURL
	}
	delay := cfg.RateLimitDelay
	if delay < 0 {
		delay = 0
	}

	avKey := cfg.AlphaVantageKey
	if avKey == alphaVantagePlaceholder {
		avKey = ""
	}

	return &StockClient{
		alphaVantage:    newVendor("alphavantage", cfg.HTTPClient, cfg.Timeout),
		polygon:         newVendor("polygon", cfg.HTTPClient, cfg.Timeout),
		alphaVantageKey: avKey,
		polygonKey:      cfg.PolygonKey,
		alphaURL:        alphaURL,
		polygonURL:      polyURL,
		delay:           delay,
		sleep:           sleepContext,
	}
}

// RateLimited reports whether quotes go through the throttled Alpha Vantage path.
func (s *StockClient) RateLimited() bool {
	return s.alphaVantageKey != ""
}

// Quote returns a quote for one symbol, trying Alpha Vantage then Polygon.io.
func (s *StockClient) Quote(ctx context.Context, symbol string) (*StockQuote, error) {
	if s.alphaVantageKey != "" {
		q, err := s.quoteAlphaVantage(ctx, symbol)
		if err == nil {
			return q, nil
		}
		slog.Debug("alpha vantage quote failed, trying polygon", "symbol", symbol, "error", err)
	}

	if s.polygonKey != "" {
		return s.quotePolygon(ctx, symbol)
	}

	return nil, fmt.Errorf("quote %s: %w", symbol, ErrNoCredentials)
}

// Quotes returns quotes keyed by symbol. Symbols that fail are skipped; when
// none succeed, deterministic sample quotes are returned instead.
func (s *StockClient) Quotes(ctx context.Context, symbols []string) (map[string]StockQuote, error) {
	quotes := make(map[string]StockQuote, len(symbols))

	if s.alphaVantageKey != "" || s.polygonKey != "" {
		for i, symbol := range symbols {
			if i > 0 && s.RateLimited() && s.delay > 0 {
				s.sleep(ctx, s.delay)
			}

			q, err := s.Quote(ctx, symbol)
			if err != nil {
				slog.Warn("stock quote failed", "symbol", symbol, "error", err)
				continue
			}
			quotes[symbol] = *q
		}
	}

	if len(quotes) == 0 {
		slog.Debug("no live stock quotes, using sample quotes", "symbols", len(symbols))
		return MockStockQuotes(symbols), nil
	}
	return quotes, nil
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

func (s *StockClient) quoteAlphaVantage(ctx context.Context, symbol string) (*StockQuote, error) {
	values := url.Values{}
	values.Set("function", "GLOBAL_QUOTE")
	values.Set("symbol", symbol)
	values.Set("apikey", s.alphaVantageKey)

	var payload globalQuoteResponse
	if err := s.alphaVantage.getJSON(ctx, s.alphaURL, values, nil, &payload); err != nil {
		return nil, err
	}

	gq := payload.GlobalQuote
	if gq.Price == "" {
		// Throttled responses come back as 200 with a Note or Information field.
		if payload.Note != "" || payload.Information != "" {
			return nil, fmt.Errorf("alphavantage %s: %w", symbol, ErrRateLimited)
		}
		return nil, fmt.Errorf("alphavantage %s: %w", symbol, ErrNoData)
	}

	price, err := decimal.NewFromString(gq.Price)
	if err != nil {
		return nil, fmt.Errorf("parse price for %s: %w", symbol, err)
	}
	change, err := decimal.NewFromString(orDefault(gq.Change, "0"))
	if err != nil {
		return nil, fmt.Errorf("parse change for %s: %w", symbol, err)
	}

	pct, err := decimal.NewFromString(strings.TrimSuffix(gq.ChangePercent, "%"))
	if err != nil {
		prev, _ := decimal.NewFromString(orDefault(gq.PreviousClose, "0"))
		pct = percentOf(change, prev)
	}

	volume, _ := strconv.ParseInt(gq.Volume, 10, 64)

	return &StockQuote{
		Symbol:           orDefault(gq.Symbol, symbol),
		Price:            price.InexactFloat64(),
		Change:           change.InexactFloat64(),
		ChangePercent:    pct.InexactFloat64(),
		Volume:           volume,
		LatestTradingDay: gq.LatestTradingDay,
		IsUp:             !change.IsNegative(),
	}, nil
}

type polygonPrevResponse struct {
	Results []struct {
		Open   float64 `json:"o"`
		Close  float64 `json:"c"`
		Volume float64 `json:"v"`
	} `json:"results"`
}

func (s *StockClient) quotePolygon(ctx context.Context, symbol string) (*StockQuote, error) {
	values := url.Values{}
	values.Set("apiKey", s.polygonKey)

	endpoint := fmt.Sprintf("%s/aggs/ticker/%s/prev", s.polygonURL, url.PathEscape(symbol))

	var payload polygonPrevResponse
	if err := s.polygon.getJSON(ctx, endpoint, values, nil, &payload); err != nil {
		return nil, fmt.Errorf("polygon quote %s: %w", symbol, err)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("polygon quote %s: %w", symbol, ErrNoData)
	}

	r := payload.Results[0]
	change, pct, up := ComputeChange(r.Open, r.Close)

	return &StockQuote{
		Symbol:           symbol,
		Price:            r.Close,
		Change:           change,
		ChangePercent:    pct,
		Volume:           int64(r.Volume),
		LatestTradingDay: "Previous Day",
		IsUp:             up,
	}, nil
}

// ComputeChange derives the move from open to close. The percentage is
// relative to open and is 0 when open is not positive.
func ComputeChange(open, close float64) (change, changePercent float64, isUp bool) {
	o := decimal.NewFromFloat(open)
	c := decimal.NewFromFloat(close)
	diff := c.Sub(o)

	return diff.InexactFloat64(), percentOf(diff, o).InexactFloat64(), !diff.IsNegative()
}

func percentOf(change, reference decimal.Decimal) decimal.Decimal {
	if !reference.IsPositive() {
		return decimal.Zero
	}
	return change.Div(reference).Mul(decimal.NewFromInt(100))
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
