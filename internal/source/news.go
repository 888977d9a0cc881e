package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	newsAPIBaseURL = "https://newsapi.org/v2"
	newsDefaultMax = 5

	// PublishedLayout is the display format for article timestamps.
	PublishedLayout = "Jan 02, 2006 03:04 PM"
)

// NewsClient reads NewsAPI top headlines.
type NewsClient struct {
	api     *vendor
	apiKey  string
	baseURL string
	country string
}

// NewsConfig holds configuration for the news client.
type NewsConfig struct {
	APIKey     string
	BaseURL    string
	Country    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewNewsClient creates a new NewsAPI client.
func NewNewsClient(cfg NewsConfig) *NewsClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = newsAPIBaseURL
	}
	country := cfg.Country
	if country == "" {
		country = "us"
	}

	return &NewsClient{
		api:     newVendor("newsapi", cfg.HTTPClient, cfg.Timeout),
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		country: country,
	}
}

type newsResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// TopHeadlines returns up to count headlines for the category. Without an API
// key, or when NewsAPI fails, curated articles for the category are returned.
func (n *NewsClient) TopHeadlines(ctx context.Context, category string, count int) ([]Article, error) {
	if count <= 0 {
		count = newsDefaultMax
	}
	category = NormalizeCategory(category)

	if n.apiKey == "" {
		slog.Debug("news api key not configured, using sample articles", "category", category)
		return MockArticles(category, count), nil
	}

	articles, err := n.fetchHeadlines(ctx, category, count)
	if err != nil {
		slog.Warn("news fetch failed, using sample articles",
			"category", category,
			"error", err,
		)
		return MockArticles(category, count), nil
	}
	return articles, nil
}

func (n *NewsClient) fetchHeadlines(ctx context.Context, category string, count int) ([]Article, error) {
	values := url.Values{}
	values.Set("apiKey", n.apiKey)
	values.Set("country", n.country)
	values.Set("category", category)
	values.Set("pageSize", strconv.Itoa(count))

	var payload newsResponse
	if err := n.api.getJSON(ctx, n.baseURL+"/top-headlines", values, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch top headlines: %w", err)
	}
	return payload.articles(count), nil
}

// Search returns up to count articles matching query, newest first. Unlike
// TopHeadlines it has no fallback and reports every failure.
func (n *NewsClient) Search(ctx context.Context, query string, count int) ([]Article, error) {
	if count <= 0 {
		count = newsDefaultMax
	}
	if n.apiKey == "" {
		return nil, fmt.Errorf("search news: %w", ErrNoCredentials)
	}

	values := url.Values{}
	values.Set("apiKey", n.apiKey)
	values.Set("q", query)
	values.Set("sortBy", "publishedAt")
	values.Set("pageSize", strconv.Itoa(count))

	var payload newsResponse
	if err := n.api.getJSON(ctx, n.baseURL+"/everything", values, nil, &payload); err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	return payload.articles(count), nil
}

func (p newsResponse) articles(count int) []Article {
	articles := make([]Article, 0, min(len(p.Articles), count))
	for _, a := range p.Articles {
		articles = append(articles, Article{
			Title:       orDefault(a.Title, "No title"),
			Source:      orDefault(a.Source.Name, "Unknown"),
			Description: orDefault(a.Description, "No description"),
			URL:         a.URL,
			PublishedAt: FormatPublished(a.PublishedAt),
		})
		if len(articles) == count {
			break
		}
	}
	return articles
}

// FormatPublished renders an RFC 3339 timestamp for display. Values that do
// not parse are returned unchanged.
func FormatPublished(raw string) string {
	if raw == "" {
		return ""
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return ts.Format(PublishedLayout)
}
