package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of any response body is read. Oversized
// pages are truncated, not rejected.
const maxBodyBytes = 5 * 1024 * 1024

// Fetcher retrieves the body of a URL. The production implementation is
// an HTTP client; tests substitute their own.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type httpFetcher struct {
	client    *http.Client
	userAgent string
}

func newHTTPFetcher(timeout time.Duration, userAgent string) *httpFetcher {
	return &httpFetcher{
		// http.Client follows redirects on its own; the timeout covers
		// the whole exchange including redirect hops.
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
