package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultFeedURL = "https://reports.ofsted.gov.uk/api/provider/childrens-social-care/fostering.csv"
	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	initialBackoff = 2 * time.Second
)

// OfstedClient fetches the public Ofsted fostering providers feed
type OfstedClient struct {
	client  *http.Client
	feedURL string
}

// NewOfstedClient creates a client for the default feed URL
func NewOfstedClient() *OfstedClient {
	return &OfstedClient{
		client:  &http.Client{Timeout: defaultTimeout},
		feedURL: defaultFeedURL,
	}
}

// NewOfstedClientWithURL creates a client against a custom feed URL,
// mainly for mirrored or locally hosted copies of the feed.
func NewOfstedClientWithURL(url string) *OfstedClient {
	c := NewOfstedClient()
	c.feedURL = url
	return c
}

// FetchProviders downloads the raw CSV feed
func (c *OfstedClient) FetchProviders(ctx context.Context) ([]byte, error) {
	body, err := c.fetchWithRetry(ctx, c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch providers feed: %w", err)
	}
	return body, nil
}

// fetchWithRetry performs an HTTP GET with exponential backoff retry
func (c *OfstedClient) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
