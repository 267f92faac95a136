package handshake

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// maxResponseBytes caps how much of a handshake body is read. Real
// responses are a few KB of text; anything bigger is a broken or hostile
// endpoint.
const maxResponseBytes = 1 << 20

// Fetch performs a single handshake request against url and parses the
// body. The client's transport settings (proxies, TLS pinning) are the
// caller's concern.
func Fetch(ctx context.Context, client *http.Client, url string) (Response, error) {
	var parsed Response

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return parsed, fmt.Errorf("handshake: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return parsed, fmt.Errorf("handshake: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parsed, fmt.Errorf("handshake: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return parsed, fmt.Errorf("handshake: read body: %w", err)
	}

	parsed.Parse(string(body))
	return parsed, nil
}

// FetchWithRetry runs Fetch under exponential backoff until it succeeds,
// maxTries attempts have been made, or ctx is cancelled.
func FetchWithRetry(ctx context.Context, client *http.Client, url string, maxTries uint) (Response, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second

	return backoff.Retry(ctx,
		func() (Response, error) {
			return Fetch(ctx, client, url)
		},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(maxTries),
	)
}
