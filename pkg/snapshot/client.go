package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client downloads snapshots published by a renderer service. Requests are
// retried on rate limiting and server errors.
type Client struct {
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// NewClient creates a client with connection pooling and a generous timeout
// for large recordings.
func NewClient() *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: transport,
		},
		maxRetries: 3,
		backoff:    2 * time.Second,
	}
}

// Fetch retrieves and decodes the snapshot at url. It makes up to three
// attempts with linear backoff, retrying transport failures, 429 and 5xx
// responses. Other statuses fail immediately.
func (c *Client) Fetch(ctx context.Context, url string) (*Snapshot, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, retry, err := c.get(ctx, url)
		if err == nil {
			return Decode(body)
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
		if !retry || attempt == c.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}

	return nil, lastErr
}

func (c *Client) get(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, false, nil
}

// Decode parses a JSON snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if s.Root == nil {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Load reads a JSON snapshot from disk.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}
