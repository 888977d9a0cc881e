package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeChange(t *testing.T) {
	tests := []struct {
		name       string
		open       float64
		close      float64
		change     float64
		percent    float64
		expectedUp bool
	}{
		{"gain", 100, 110, 10, 10, true},
		{"loss", 200, 150, -50, -25, false},
		{"flat", 50, 50, 0, 0, true},
		{"zero open", 0, 5, 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, pct, up := ComputeChange(tt.open, tt.close)
			assert.InDelta(t, tt.change, change, 1e-9)
			assert.InDelta(t, tt.percent, pct, 1e-9)
			assert.Equal(t, tt.expectedUp, up)
		})
	}
}

func alphaVantageServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		symbol := r.URL.Query().Get("symbol")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"Global Quote": map[string]string{
				"01. symbol":             symbol,
				"05. price":              "187.4400",
				"06. volume":             "52164500",
				"07. latest trading day": "2024-03-01",
				"08. previous close":     "185.0000",
				"09. change":             "-2.4400",
				"10. change percent":     "-1.2851%",
			},
		})
	}))
}

func TestStockClient_AlphaVantage(t *testing.T) {
	var calls int32
	server := alphaVantageServer(t, &calls)
	defer server.Close()

	client := NewStockClient(StockConfig{
		AlphaVantageKey:     "av-key",
		AlphaVantageBaseURL: server.URL,
	})

	q, err := client.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", q.Symbol)
	assert.InDelta(t, 187.44, q.Price, 1e-9)
	assert.InDelta(t, -2.44, q.Change, 1e-9)
	assert.InDelta(t, -1.2851, q.ChangePercent, 1e-9)
	assert.Equal(t, int64(52164500), q.Volume)
	assert.Equal(t, "2024-03-01", q.LatestTradingDay)
	assert.False(t, q.IsUp)
}

func TestStockClient_QuotesRateLimitDelay(t *testing.T) {
	var calls int32
	server := alphaVantageServer(t, &calls)
	defer server.Close()

	client := NewStockClient(StockConfig{
		AlphaVantageKey:     "av-key",
		AlphaVantageBaseURL: server.URL,
		RateLimitDelay:      5 * time.Second,
	})

	var sleeps []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) {
		sleeps = append(sleeps, d)
	}

	symbols := []string{"AAPL", "MSFT", "NVDA"}
	quotes, err := client.Quotes(context.Background(), symbols)
	require.NoError(t, err)

	assert.Len(t, quotes, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, sleeps)
	for _, s := range symbols {
		assert.Equal(t, s, quotes[s].Symbol)
	}
}

func TestStockClient_ZeroDelayNeverSleeps(t *testing.T) {
	var calls int32
	server := alphaVantageServer(t, &calls)
	defer server.Close()

	client := NewStockClient(StockConfig{
		AlphaVantageKey:     "av-key",
		AlphaVantageBaseURL: server.URL,
	})
	assert.True(t, client.RateLimited())

	client.sleep = func(ctx context.Context, d time.Duration) {
		t.Fatalf("unexpected sleep of %s", d)
	}

	quotes, err := client.Quotes(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStockClient_Polygon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/aggs/ticker/SPY/prev", r.URL.Path)
		assert.Equal(t, "poly-key", r.URL.Query().Get("apiKey"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"o": 100.0, "c": 110.0, "v": 1234567.0},
			},
		})
	}))
	defer server.Close()

	client := NewStockClient(StockConfig{
		PolygonKey:     "poly-key",
		PolygonBaseURL: server.URL,
	})
	assert.False(t, client.RateLimited())

	client.sleep = func(ctx context.Context, d time.Duration) {
		t.Fatal("polygon path must not sleep")
	}

	quotes, err := client.Quotes(context.Background(), []string{"SPY", "SPY"})
	require.NoError(t, err)

	q := quotes["SPY"]
	assert.InDelta(t, 110.0, q.Price, 1e-9)
	assert.InDelta(t, 10.0, q.Change, 1e-9)
	assert.InDelta(t, 10.0, q.ChangePercent, 1e-9)
	assert.Equal(t, int64(1234567), q.Volume)
	assert.Equal(t, "Previous Day", q.LatestTradingDay)
	assert.True(t, q.IsUp)
}

func TestStockClient_ThrottledFallsBackToPolygon(t *testing.T) {
	av := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	}))
	defer av.Close()

	poly := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"o":50,"c":45,"v":10}]}`))
	}))
	defer poly.Close()

	client := NewStockClient(StockConfig{
		AlphaVantageKey:     "av-key",
		AlphaVantageBaseURL: av.URL,
		PolygonKey:          "poly-key",
		PolygonBaseURL:      poly.URL,
	})

	q, err := client.Quote(context.Background(), "XLE")
	require.NoError(t, err)
	assert.InDelta(t, -5.0, q.Change, 1e-9)
	assert.InDelta(t, -10.0, q.ChangePercent, 1e-9)
	assert.False(t, q.IsUp)
}

func TestStockClient_NoCredentials(t *testing.T) {
	client := NewStockClient(StockConfig{AlphaVantageKey: alphaVantagePlaceholder})
	assert.False(t, client.RateLimited())

	_, err := client.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoCredentials)

	quotes, err := client.Quotes(context.Background(), MostActiveSymbols)
	require.NoError(t, err)
	assert.Len(t, quotes, len(MostActiveSymbols))
	assert.Equal(t, MockStockQuotes(MostActiveSymbols), quotes)
}

func TestStockClient_PlaceholderKeyIsAbsent(t *testing.T) {
	var calls int32
	server := alphaVantageServer(t, &calls)
	defer server.Close()

	client := NewStockClient(StockConfig{
		AlphaVantageKey:     "your_alphavantage_api_key",
		AlphaVantageBaseURL: server.URL,
		RateLimitDelay:      time.Second,
	})
	assert.False(t, client.RateLimited())

	var slept int
	client.sleep = func(ctx context.Context, d time.Duration) {
		slept++
	}

	symbols := []string{"AAPL", "MSFT", "NVDA"}
	quotes, err := client.Quotes(context.Background(), symbols)
	require.NoError(t, err)

	assert.Zero(t, slept)
	assert.Zero(t, atomic.LoadInt32(&calls))
	require.Len(t, quotes, len(symbols))
	for _, s := range symbols {
		assert.Equal(t, "Mock Data", quotes[s].LatestTradingDay)
	}
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}
