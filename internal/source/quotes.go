package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	quotableBaseURL = "https://api.quotable.io"
	defaultQuoteTag = "inspirational"
)

// QuoteClient reads random quotes from Quotable. No key is required.
type QuoteClient struct {
	api     *vendor
	baseURL string
	now     func() time.Time
}

// QuoteConfig holds configuration for the quote client.
type QuoteConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewQuoteClient creates a new Quotable client.
func NewQuoteClient(cfg QuoteConfig) *QuoteClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = quotableBaseURL
	}

	return &QuoteClient{
		api:     newVendor("quotable", cfg.HTTPClient, cfg.Timeout),
		baseURL: baseURL,
		now:     time.Now,
	}
}

type quotableResponse struct {
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// Random returns a random quote, or the curated quote of the day when
// Quotable cannot be reached.
func (q *QuoteClient) Random(ctx context.Context) (*Quote, error) {
	var payload quotableResponse
	err := q.api.getJSON(ctx, q.baseURL+"/random", nil, nil, &payload)
	if err == nil && payload.Content == "" {
		err = ErrNoData
	}
	if err != nil {
		slog.Warn("quote fetch failed, using quote of the day", "error", err)
		fallback := MockQuote(q.now().YearDay())
		return &fallback, nil
	}

	return payload.quote(), nil
}

// ByTag returns a random quote carrying tag, "inspirational" when empty.
// There is no fallback; failures are returned.
func (q *QuoteClient) ByTag(ctx context.Context, tag string) (*Quote, error) {
	values := url.Values{}
	values.Set("tags", orDefault(tag, defaultQuoteTag))

	var payload quotableResponse
	if err := q.api.getJSON(ctx, q.baseURL+"/random", values, nil, &payload); err != nil {
		return nil, fmt.Errorf("quote by tag: %w", err)
	}
	if payload.Content == "" {
		return nil, fmt.Errorf("quote by tag %q: %w", tag, ErrNoData)
	}
	return payload.quote(), nil
}

func (p quotableResponse) quote() *Quote {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Quote{
		Text:   p.Content,
		Author: orDefault(p.Author, "Unknown"),
		Tags:   tags,
	}
}
