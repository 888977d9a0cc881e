package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwitterClient_Name(t *testing.T) {
	assert.Equal(t, "twitter", NewTwitterClient(TwitterConfig{}).Name())
}

func TestTwitterClient_ByCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "10", q.Get("max_results"))
		assert.Equal(t, TwitterQuery(CategoryScience), q.Get("query"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"text": "Launch window opens tonight", "author_id": "1", "created_at": "2024-03-01T10:00:00Z",
					"public_metrics": map[string]int{"like_count": 120, "retweet_count": 30},
				},
				{"text": "Orphan tweet", "author_id": "99"},
				{"text": "Third", "author_id": "1"},
				{"text": "Fourth", "author_id": "1"},
			},
			"includes": map[string]interface{}{
				"users": []map[string]string{{"id": "1", "username": "spacefan", "name": "Space Fan"}},
			},
		})
	}))
	defer server.Close()

	client := NewTwitterClient(TwitterConfig{BearerToken: "test-token", BaseURL: server.URL})

	tweets, err := client.ByCategory(context.Background(), "science", 3)
	require.NoError(t, err)
	require.Len(t, tweets, 3)

	assert.Equal(t, "Launch window opens tonight", tweets[0].Text)
	assert.Equal(t, "spacefan", tweets[0].Author)
	assert.Equal(t, "Space Fan", tweets[0].AuthorName)
	assert.Equal(t, 120, tweets[0].Likes)
	assert.Equal(t, 30, tweets[0].Retweets)
	assert.False(t, tweets[0].Mock)

	assert.Equal(t, "Unknown", tweets[1].Author)
}

func TestTwitterClient_FallsBackToSamples(t *testing.T) {
	t.Run("without token", func(t *testing.T) {
		client := NewTwitterClient(TwitterConfig{})

		tweets, err := client.ByCategory(context.Background(), CategoryBusiness, 3)
		require.NoError(t, err)
		assert.Equal(t, MockTweets(CategoryBusiness, 3), tweets)
	})

	t.Run("on rate limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewTwitterClient(TwitterConfig{BearerToken: "t", BaseURL: server.URL})

		tweets, err := client.ByCategory(context.Background(), "", 3)
		require.NoError(t, err)
		assert.Equal(t, MockTweets(CategoryTechnology, 3), tweets)
	})

	t.Run("unknown category uses technology", func(t *testing.T) {
		client := NewTwitterClient(TwitterConfig{})

		unknown, err := client.ByCategory(context.Background(), "gardening", 3)
		require.NoError(t, err)
		assert.Equal(t, MockTweets(CategoryTechnology, 3), unknown)
	})
}
