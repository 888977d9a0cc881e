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
	twitterBaseURL    = "https://api.twitter.com/2"
	twitterDefaultMax = 3

	// twitterMinResults is the smallest max_results the recent search accepts.
	twitterMinResults = 10
)

// TwitterClient searches recent tweets for a category.
type TwitterClient struct {
	api         *vendor
	bearerToken string
	baseURL     string
}

// TwitterConfig holds configuration for the Twitter client.
type TwitterConfig struct {
	BearerToken string
	BaseURL     string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// NewTwitterClient creates a new Twitter/X client.
func NewTwitterClient(cfg TwitterConfig) *TwitterClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = twitterBaseURL
	}

	return &TwitterClient{
		api:         newVendor("twitter", cfg.HTTPClient, cfg.Timeout),
		bearerToken: cfg.BearerToken,
		baseURL:     baseURL,
	}
}

// Name returns the platform name.
func (t *TwitterClient) Name() string {
	return "twitter"
}

type recentSearchResponse struct {
	Data []struct {
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Name     string `json:"name"`
		} `json:"users"`
	} `json:"includes"`
}

// ByCategory returns up to count recent tweets for the category. Without a
// bearer token, or when the API fails, curated tweets are returned.
func (t *TwitterClient) ByCategory(ctx context.Context, category string, count int) ([]Tweet, error) {
	if count <= 0 {
		count = twitterDefaultMax
	}
	category = NormalizeCategory(category)

	if t.bearerToken == "" {
		slog.Debug("twitter bearer token not configured, using sample tweets", "category", category)
		return MockTweets(category, count), nil
	}

	tweets, err := t.search(ctx, TwitterQuery(category), count)
	if err != nil {
		slog.Warn("twitter fetch failed, using sample tweets",
			"category", category,
			"error", err,
		)
		return MockTweets(category, count), nil
	}
	return tweets, nil
}

func (t *TwitterClient) search(ctx context.Context, query string, count int) ([]Tweet, error) {
	maxResults := count
	if maxResults < twitterMinResults {
		maxResults = twitterMinResults
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("max_results", strconv.Itoa(maxResults))
	values.Set("tweet.fields", "created_at,public_metrics,author_id")
	values.Set("expansions", "author_id")
	values.Set("user.fields", "username,name")

	header := http.Header{}
	header.Set("Authorization", "Bearer "+t.bearerToken)

	var payload recentSearchResponse
	if err := t.api.getJSON(ctx, t.baseURL+"/tweets/search/recent", values, header, &payload); err != nil {
		return nil, fmt.Errorf("search recent tweets: %w", err)
	}

	type user struct{ username, name string }
	users := make(map[string]user, len(payload.Includes.Users))
	for _, u := range payload.Includes.Users {
		users[u.ID] = user{username: u.Username, name: u.Name}
	}

	tweets := make([]Tweet, 0, count)
	for _, d := range payload.Data {
		author := users[d.AuthorID]
		tweets = append(tweets, Tweet{
			Text:       d.Text,
			Author:     orDefault(author.username, "Unknown"),
			AuthorName: orDefault(author.name, "Unknown"),
			Likes:      d.PublicMetrics.LikeCount,
			Retweets:   d.PublicMetrics.RetweetCount,
			CreatedAt:  d.CreatedAt,
		})
		if len(tweets) == count {
			break
		}
	}
	return tweets, nil
}
