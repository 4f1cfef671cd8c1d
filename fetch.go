package shopfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Feed is one source's parsed product catalog.
type Feed struct {
	// URL is the source identifier the feed was fetched from.
	URL string
	// Products are the raw catalog entries, not yet normalized.
	Products []RawRecord
}

// FeedRetriever fetches one source's catalog. Failures are reported
// per feed so a dead source does not block the rest of the run.
type FeedRetriever interface {
	Fetch(ctx context.Context, url string) (*Feed, error)
}

// HTTPRetriever fetches product feeds over HTTP.
type HTTPRetriever struct {
	client *http.Client
}

// NewHTTPRetriever creates a retriever backed by the given client.
// A nil client gets a default with a 30 second timeout.
func NewHTTPRetriever(client *http.Client) *HTTPRetriever {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPRetriever{client: client}
}

// Fetch downloads and decodes the feed at url. The body must be a
// JSON object with a "products" key holding the catalog entries.
func (r *HTTPRetriever) Fetch(ctx context.Context, url string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFeedUnavailable, url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFeedUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrFeedUnavailable, url, resp.StatusCode)
	}

	var body struct {
		Products []RawRecord `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %s: decode body: %w", ErrFeedUnavailable, url, err)
	}
	return &Feed{URL: url, Products: body.Products}, nil
}
