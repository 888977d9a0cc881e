// Package source holds the vendor adapters that feed the dashboard.
//
// Every adapter normalizes one vendor's API into the record shapes below.
// Adapters with a fallback path substitute curated mock records instead of
// returning an error; the weather adapter has no such path and reports
// failures to the caller.
package source

import (
	"context"
	"errors"
)

// Sentinel errors returned by vendor calls. They are wrapped with context and
// are meant to be checked with errors.Is.
var (
	ErrNoCredentials = errors.New("credentials not configured")
	ErrUnauthorized  = errors.New("vendor rejected credentials")
	ErrRateLimited   = errors.New("vendor rate limit exceeded")
	ErrNotFound      = errors.New("vendor resource not found")
	ErrUpstream      = errors.New("unexpected vendor status")
	ErrCircuitOpen   = errors.New("circuit breaker open")
	ErrNoData        = errors.New("vendor returned no data")
)

// CurrentWeather is the present conditions for a city, in °F and mph.
type CurrentWeather struct {
	City        string `json:"city"`
	Temperature int    `json:"temperature"`
	FeelsLike   int    `json:"feels_like"`
	Humidity    int    `json:"humidity"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	WindSpeed   int    `json:"wind_speed"`
}

// DailyForecast summarizes one calendar day.
type DailyForecast struct {
	Date        string `json:"date"`
	High        int    `json:"high"`
	Low         int    `json:"low"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// HourlyForecast is one forecast step.
type HourlyForecast struct {
	Time        string `json:"time"`
	Temperature int    `json:"temperature"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Article is a news headline.
type Article struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Mock        bool   `json:"is_mock,omitempty"`
}

// StockQuote is the latest known price for a ticker.
type StockQuote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"change_percent"`
	Volume           int64   `json:"volume"`
	LatestTradingDay string  `json:"latest_trading_day"`
	IsUp             bool    `json:"is_up"`
}

// Quote is a quote of the day.
type Quote struct {
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
	Mock   bool     `json:"is_mock,omitempty"`
}

// Tweet is a post from the Twitter/X recent search.
type Tweet struct {
	Text       string `json:"text"`
	Author     string `json:"author"`
	AuthorName string `json:"author_name"`
	Likes      int    `json:"likes"`
	Retweets   int    `json:"retweets"`
	CreatedAt  string `json:"created_at"`
	Mock       bool   `json:"is_mock,omitempty"`
}

// RedditPost is a hot post from a subreddit.
type RedditPost struct {
	Title       string `json:"title"`
	Subreddit   string `json:"subreddit"`
	Author      string `json:"author"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	URL         string `json:"url"`
	Age         string `json:"age"`
	Selftext    string `json:"selftext"`
	Mock        bool   `json:"is_mock,omitempty"`
}

// WeatherSource provides current conditions and forecasts.
type WeatherSource interface {
	Current(ctx context.Context, city string) (*CurrentWeather, error)
	Forecast7Day(ctx context.Context, city string) ([]DailyForecast, error)
	Hourly(ctx context.Context, city string, hours int) ([]HourlyForecast, error)
}

// NewsSource provides top headlines for a category.
type NewsSource interface {
	TopHeadlines(ctx context.Context, category string, count int) ([]Article, error)
}

// StockSource provides ticker quotes.
type StockSource interface {
	Quote(ctx context.Context, symbol string) (*StockQuote, error)
	Quotes(ctx context.Context, symbols []string) (map[string]StockQuote, error)
}

// QuoteSource provides a random quote.
type QuoteSource interface {
	Random(ctx context.Context) (*Quote, error)
}

// TrendSource provides trending social posts for a category. T is the
// platform-specific record type.
type TrendSource[T any] interface {
	// Name returns the platform name.
	Name() string

	// ByCategory returns up to count trending items for the category.
	ByCategory(ctx context.Context, category string, count int) ([]T, error)
}
