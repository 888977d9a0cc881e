package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultTimeout bounds a single vendor request.
	DefaultTimeout = 10 * time.Second

	userAgent = "dashboard/1.0"
)

// vendor bundles the HTTP client and circuit breaker used for one upstream API.
// Requests are attempted once; an open breaker fails fast so the adapter can
// take its fallback path without waiting on a vendor that keeps failing.
type vendor struct {
	name    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func newVendor(name string, client *http.Client, timeout time.Duration) *vendor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &vendor{
		name:    name,
		client:  client,
		breaker: cb,
	}
}

// getJSON issues a GET to base?query and decodes the JSON body into out.
func (v *vendor) getJSON(ctx context.Context, base string, query url.Values, header http.Header, out any) error {
	u := base
	if len(query) > 0 {
		u = base + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", v.name, err)
	}
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	return v.do(req, out)
}

// do executes req through the breaker. A nil out discards the body.
func (v *vendor) do(req *http.Request, out any) error {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "application/json")

	_, err := v.breaker.Execute(func() (interface{}, error) {
		resp, err := v.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := checkStatus(v.name, resp); err != nil {
			return nil, err
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", v.name, err)
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", v.name, ErrCircuitOpen)
	}
	return err
}

// checkStatus maps non-2xx responses onto the package sentinel errors.
func checkStatus(name string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	var kind error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrUnauthorized
	case http.StatusTooManyRequests:
		kind = ErrRateLimited
	case http.StatusNotFound:
		kind = ErrNotFound
	default:
		kind = ErrUpstream
	}

	return fmt.Errorf("%s API error (status %d): %w: %s", name, resp.StatusCode, kind, string(body))
}

// truncate shortens a string to maxLen runes, adding an ellipsis if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// orDefault substitutes def for an empty string.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
