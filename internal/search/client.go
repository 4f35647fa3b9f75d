// Package search provides the news search API client.
//
// The client issues one GET per query against a Custom Search style
// endpoint and distinguishes three outcomes: a valid response with hits, a
// valid response with zero hits (a legitimate result, never retried), and
// failure. Transport errors, non-200 statuses, and malformed response
// envelopes are retried under the configured policy; once the attempt
// budget is spent the query degrades to ErrNoResponse.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/pfrederiksen/docket-watch/internal/retry"
)

// ErrNoResponse reports a query whose every attempt failed. Callers treat
// it as "no results for this name", not as a fatal condition.
var ErrNoResponse = errors.New("no valid search response")

// Hit is one search result item.
type Hit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Information is the envelope metadata whose presence marks a response as
// structurally valid.
type Information struct {
	TotalResults string `json:"totalResults"`
}

// Response is the search API's success envelope. Items may be empty even
// when the response is valid.
type Response struct {
	SearchInformation *Information `json:"searchInformation"`
	Items             []Hit        `json:"items"`
}

// Config holds the client settings.
type Config struct {
	Endpoint    string
	APIKey      string
	EngineID    string
	ResultCount int
	Timeout     time.Duration
	Retry       retry.Policy
}

// Client queries the search API with bounded retries.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a search client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Search queries the API for query. A structurally valid response returns
// immediately whether or not it contains hits. When every attempt fails
// the returned error wraps ErrNoResponse, unless ctx was cancelled, in
// which case the context error passes through.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	var result *Response
	op := func() error {
		resp, err := c.fetch(ctx, query)
		if err != nil {
			return err
		}
		result = resp
		return nil
	}
	notify := func(err error, next time.Duration) {
		c.log.Warn("search attempt failed", "query", query, "error", err.Error(), "retry_in", next.String())
	}

	if err := c.cfg.Retry.Do(ctx, op, notify); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context, query string) (*Response, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.cfg.APIKey)
	params.Set("cx", c.cfg.EngineID)
	params.Set("num", strconv.Itoa(c.cfg.ResultCount))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("creating request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if result.SearchInformation == nil {
		return nil, errors.New("response missing success envelope")
	}
	return &result, nil
}
