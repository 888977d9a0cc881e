package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/dashboard/internal/dashboard"
	"github.com/abdulachik/dashboard/internal/health"
	"github.com/abdulachik/dashboard/internal/source"
	"github.com/abdulachik/dashboard/internal/telemetry"
)

type call struct {
	useCache bool
	category string
}

type fakeSnapshots struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeSnapshots) GetOrRefresh(_ context.Context, useCache bool, category string) dashboard.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{useCache: useCache, category: category})
	return dashboard.Snapshot{
		GeneratedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Category:    category,
		News:        source.MockArticles(category, 2),
		Quote:       &source.Quote{Text: "q", Author: "a", Tags: []string{}},
	}
}

func (f *fakeSnapshots) Refresh(ctx context.Context, category string) dashboard.Snapshot {
	return f.GetOrRefresh(ctx, false, category)
}

func (f *fakeSnapshots) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestApp(t *testing.T, deps Deps) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})
	RegisterRoutes(app, deps)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, body
}

func TestData_ReturnsAllSlotKeys(t *testing.T) {
	snaps := &fakeSnapshots{}
	app := newTestApp(t, Deps{Snapshots: snaps})

	resp, body := get(t, app, "/api/data?category=business")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &payload))
	for _, slot := range dashboard.Slots {
		assert.Contains(t, payload, string(slot))
	}
	assert.JSONEq(t, "null", string(payload["weather"]))
	assert.JSONEq(t, `"business"`, string(payload["category"]))

	assert.Equal(t, call{useCache: true, category: "business"}, snaps.last())
}

func TestData_DefaultCategory(t *testing.T) {
	snaps := &fakeSnapshots{}
	app := newTestApp(t, Deps{Snapshots: snaps, DefaultCategory: "science"})

	resp, _ := get(t, app, "/api/data")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "science", snaps.last().category)

	app = newTestApp(t, Deps{Snapshots: snaps})
	get(t, app, "/api/data")
	assert.Equal(t, "technology", snaps.last().category)
}

func TestRefresh_BypassesCache(t *testing.T) {
	snaps := &fakeSnapshots{}
	app := newTestApp(t, Deps{Snapshots: snaps})

	resp, _ := get(t, app, "/api/refresh?category=sports")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, call{useCache: false, category: "sports"}, snaps.last())
}

func TestCategoryValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{name: "known", target: "/api/data?category=Health", want: http.StatusOK},
		{name: "unknown word", target: "/api/data?category=cooking", want: http.StatusOK},
		{name: "digits", target: "/api/data?category=tech1", want: http.StatusOK},
		{name: "punctuation", target: "/api/refresh?category=sci-fi", want: http.StatusOK},
		{name: "non ascii", target: "/api/data?category=caf%C3%A9", want: http.StatusBadRequest},
		{name: "control character", target: "/api/data?category=a%0Ab", want: http.StatusBadRequest},
		{name: "too long", target: "/api/data?category=" + strings.Repeat("a", 65), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := &fakeSnapshots{}
			app := newTestApp(t, Deps{Snapshots: snaps})

			resp, body := get(t, app, tt.target)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusBadRequest {
				assert.Contains(t, string(body), `"error":true`)
				assert.Empty(t, snaps.calls)
			} else {
				require.Len(t, snaps.calls, 1)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	app := newTestApp(t, Deps{Snapshots: &fakeSnapshots{}})

	resp, body := get(t, app, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	assert.Contains(t, string(body), "/api/data")
}

func TestHealth(t *testing.T) {
	h := health.New()
	h.RecordFetch(dashboard.SlotNews, time.Millisecond, nil)
	h.RecordFetch(dashboard.SlotWeather, time.Millisecond, errors.New("boom"))

	app := newTestApp(t, Deps{Snapshots: &fakeSnapshots{}, Health: h})

	resp, body := get(t, app, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Status     string                   `json:"status"`
		Components map[string]health.Status `json:"components"`
		Unhealthy  []string                 `json:"unhealthy"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "degraded", payload.Status)
	assert.Equal(t, []string{"weather"}, payload.Unhealthy)
	assert.True(t, payload.Components["news"].Healthy)
	assert.Equal(t, "boom", payload.Components["weather"].LastError)
}

func TestHealth_NoTracker(t *testing.T) {
	app := newTestApp(t, Deps{Snapshots: &fakeSnapshots{}})

	resp, body := get(t, app, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := telemetry.NewPrometheusCollector(reg)
	require.NoError(t, err)
	collector.RecordCache(true)

	app := newTestApp(t, Deps{
		Snapshots: &fakeSnapshots{},
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	resp, body := get(t, app, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `dashboard_cache_lookups_total{result="hit"} 1`)

	app = newTestApp(t, Deps{Snapshots: &fakeSnapshots{}})
	resp, _ = get(t, app, "/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
