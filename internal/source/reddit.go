package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	redditAuthURL    = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL     = "https://oauth.reddit.com"
	redditDefaultMax = 3
	redditSelftext   = 200
)

// RedditClient reads hot posts for a category using application-only OAuth.
type RedditClient struct {
	api          *vendor
	clientID     string
	clientSecret string
	userAgent    string
	authURL      string
	apiURL       string
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// RedditConfig holds configuration for the Reddit client.
type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	AuthURL      string
	APIURL       string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// NewRedditClient creates a new Reddit client.
func NewRedditClient(cfg RedditConfig) *RedditClient {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = redditAuthURL
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = redditAPIURL
	}

	return &RedditClient{
		api:          newVendor("reddit", cfg.HTTPClient, cfg.Timeout),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		userAgent:    orDefault(cfg.UserAgent, "dashboard:v1.0.0"),
		authURL:      authURL,
		apiURL:       apiURL,
		now:          time.Now,
	}
}

// Name returns the platform name.
func (r *RedditClient) Name() string {
	return "reddit"
}

// redditListing represents a Reddit API listing response.
type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Permalink   string  `json:"permalink"`
				Subreddit   string  `json:"subreddit"`
				Author      string  `json:"author"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
				Stickied    bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// ByCategory returns up to count hot posts from the subreddits mapped to the
// category. Without credentials, or when Reddit fails, curated posts are
// returned.
func (r *RedditClient) ByCategory(ctx context.Context, category string, count int) ([]RedditPost, error) {
	if count <= 0 {
		count = redditDefaultMax
	}
	category = NormalizeCategory(category)

	if r.clientID == "" || r.clientSecret == "" {
		slog.Debug("reddit credentials not configured, using sample posts", "category", category)
		return MockRedditPosts(category, count), nil
	}

	posts, err := r.fetchHot(ctx, Subreddits(category), count)
	if err != nil {
		slog.Warn("reddit fetch failed, using sample posts",
			"category", category,
			"error", err,
		)
		return MockRedditPosts(category, count), nil
	}
	return posts, nil
}

func (r *RedditClient) fetchHot(ctx context.Context, subreddits []string, count int) ([]RedditPost, error) {
	token, err := r.ensureAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	values := url.Values{}
	// Stickied posts are skipped, so over-fetch a little.
	values.Set("limit", strconv.Itoa(count+2))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("User-Agent", r.userAgent)

	endpoint := fmt.Sprintf("%s/r/%s/hot", r.apiURL, strings.Join(subreddits, "+"))

	var listing redditListing
	if err := r.api.getJSON(ctx, endpoint, values, header, &listing); err != nil {
		return nil, fmt.Errorf("fetch hot posts: %w", err)
	}

	now := r.now()
	posts := make([]RedditPost, 0, count)
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.Stickied {
			continue
		}

		created := time.Unix(int64(post.CreatedUTC), 0)
		posts = append(posts, RedditPost{
			Title:       post.Title,
			Subreddit:   post.Subreddit,
			Author:      orDefault(post.Author, "[deleted]"),
			Score:       post.Score,
			NumComments: post.NumComments,
			URL:         "https://reddit.com" + post.Permalink,
			Age:         humanizeAge(now.Sub(created)),
			Selftext:    truncate(post.Selftext, redditSelftext),
		})
		if len(posts) == count {
			break
		}
	}

	slog.Debug("fetched reddit posts", "subreddits", subreddits, "count", len(posts))
	return posts, nil
}

func (r *RedditClient) ensureAccessToken(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accessToken != "" && r.now().Before(r.tokenExpiry) {
		return r.accessToken, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.authURL,
		strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}

	req.SetBasicAuth(r.clientID, r.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", r.userAgent)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := r.api.do(req, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("reddit token: %w", ErrUnauthorized)
	}

	r.accessToken = tokenResp.AccessToken
	r.tokenExpiry = r.now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)

	slog.Debug("obtained Reddit access token",
		"expires_in", tokenResp.ExpiresIn,
	)

	return r.accessToken, nil
}

// humanizeAge renders a post age as "3d ago", "5h ago" or "12m ago".
func humanizeAge(age time.Duration) string {
	if age < 0 {
		age = 0
	}
	switch {
	case age >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	case age >= time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
}
