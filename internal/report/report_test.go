package report

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/dashboard/internal/dashboard"
	"github.com/abdulachik/dashboard/internal/source"
)

func fullSnapshot() dashboard.Snapshot {
	return dashboard.Snapshot{
		GeneratedAt: time.Date(2024, 3, 1, 15, 4, 0, 0, time.UTC),
		Category:    "technology",
		Weather:     &source.CurrentWeather{City: "Chicago", Temperature: 68, FeelsLike: 66, Humidity: 40, Description: "clear sky", WindSpeed: 9},
		Forecast:    []source.DailyForecast{{Date: "Fri, Mar 01", High: 70, Low: 51, Description: "sunny"}},
		Hourly:      []source.HourlyForecast{{Time: "Fri 06:00 PM", Temperature: 64, Description: "clouds"}},
		News:        source.MockArticles("technology", 2),
		Stocks:      source.MockStockQuotes([]string{"MSFT", "AAPL"}),
		ETFs:        map[string]source.StockQuote{},
		Quote:       &source.Quote{Text: "Make it work.", Author: "Kent Beck", Tags: []string{}},
		Twitter:     []source.Tweet{{Text: "multi\nline   tweet", Author: "gopher", Likes: 3, Retweets: 1}},
		Reddit:      []source.RedditPost{{Title: "Go 1.25 released", Subreddit: "golang", Score: 900, NumComments: 120, Age: "2h ago"}},
	}
}

func TestRender_AllSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fullSnapshot(), Options{StockOrder: []string{"MSFT", "AAPL"}}))
	out := buf.String()

	for _, heading := range []string{
		"WEATHER  Chicago", "FORECAST", "NEXT HOURS", "NEWS",
		"MOST ACTIVE STOCKS", "POPULAR ETFS", "QUOTE OF THE DAY",
		"TRENDING ON X", "TRENDING ON REDDIT",
	} {
		assert.Contains(t, out, heading)
	}

	assert.Contains(t, out, "68°F, feels like 66°F, clear sky")
	assert.Contains(t, out, "@gopher: multi line tweet")
	assert.Contains(t, out, "r/golang: Go 1.25 released")
	assert.Contains(t, out, "sample")
	assert.NotContains(t, out, "Unavailable:")

	// Watchlist order wins over alphabetical order.
	stocks := out[strings.Index(out, "MOST ACTIVE STOCKS"):strings.Index(out, "POPULAR ETFS")]
	assert.Less(t, strings.Index(stocks, "MSFT"), strings.Index(stocks, "AAPL"))

	// The empty ETF map renders as a section with no data.
	etfs := out[strings.Index(out, "POPULAR ETFS"):]
	assert.Contains(t, etfs[:60], "(no data)")
}

func TestRender_SkipsUnavailable(t *testing.T) {
	snap := fullSnapshot()
	snap.Weather = nil
	snap.Forecast = nil
	snap.Hourly = nil
	snap.Reddit = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, snap, Options{}))
	out := buf.String()

	assert.NotContains(t, out, "WEATHER")
	assert.NotContains(t, out, "FORECAST")
	assert.NotContains(t, out, "TRENDING ON REDDIT")
	assert.Contains(t, out, "NEWS")
	assert.Contains(t, out, "Unavailable: weather, forecast, hourly, reddit")
}

func TestRender_TruncatesToWidth(t *testing.T) {
	snap := fullSnapshot()
	snap.News = []source.Article{{Title: strings.Repeat("長い見出し", 20), Source: "Wire"}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, snap, Options{Width: 40}))

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 40, line)
	}
}

func TestTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	r := &renderer{w: newBuffered(&buf), width: 80}
	r.table([][]string{{"東京", "x"}, {"ab", "y"}})
	require.NoError(t, r.w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, runewidth.StringWidth(lines[0]), runewidth.StringWidth(lines[1]))
}

func TestOrderedSymbols(t *testing.T) {
	quotes := source.MockStockQuotes([]string{"C", "A", "B", "D"})
	assert.Equal(t, []string{"D", "B", "A", "C"}, orderedSymbols(quotes, []string{"D", "B", "X"}))
}

func TestHumanVolume(t *testing.T) {
	assert.Equal(t, "999", humanVolume(999))
	assert.Equal(t, "1.5K", humanVolume(1500))
	assert.Equal(t, "52.2M", humanVolume(52_164_500))
	assert.Equal(t, "1.2B", humanVolume(1_200_000_000))
}

func newBuffered(buf *bytes.Buffer) *bufio.Writer {
	return bufio.NewWriter(buf)
}
