package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-report/internal/observability"
)

// maxBodyBytes caps a single feed response.
const maxBodyBytes = 32 << 20

// Client retrieves GeoJSON feed payloads over HTTP.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client with the given request timeout.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchFeed performs a GET against feedURL and returns the response body.
// Any status other than 200 is an error.
func (c *Client) FetchFeed(ctx context.Context, feedURL string) ([]byte, error) {
	start := time.Now()
	body, outcome, err := c.do(ctx, feedURL)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	c.metrics.FetchRequests.WithLabelValues(outcome).Inc()
	return body, err
}

// Fetch is the non-failing form of FetchFeed: problems are logged and an
// empty string is returned.
func (c *Client) Fetch(ctx context.Context, feedURL string) string {
	body, err := c.FetchFeed(ctx, feedURL)
	if err != nil {
		c.logger.Error("problem retrieving the earthquake JSON results",
			"url", feedURL,
			"error", err,
		)
		return ""
	}
	return string(body)
}

func (c *Client) do(ctx context.Context, feedURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, "error", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "error", fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "status", fmt.Errorf("usgs API error: status %d: %s", resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "error", fmt.Errorf("read response: %w", err)
	}
	return body, "success", nil
}

// Source fetches one fixed feed URL. It implements pipeline.Extractor.
type Source struct {
	client  *Client
	feedURL string
}

// NewSource binds a client to a feed URL.
func NewSource(client *Client, feedURL string) *Source {
	return &Source{client: client, feedURL: feedURL}
}

// Extract returns the feed payload or the fetch error.
func (s *Source) Extract(ctx context.Context) (string, error) {
	body, err := s.client.FetchFeed(ctx, s.feedURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
