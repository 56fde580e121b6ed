// Package serpapi implements the web search port against the SerpAPI
// Google search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/logger"
)

var _ driven.WebSearcher = (*Client)(nil)

const (
	defaultBaseURL = "https://serpapi.com/search.json"
	defaultTimeout = 10 * time.Second
)

// Client calls SerpAPI. Per the port contract it never returns errors:
// a missing key, rate limiting, transport failures and bad payloads all
// degrade to an empty result list.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithRateLimit overrides the request rate limit.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// NewClient creates a SerpAPI client. An empty API key is allowed; such
// a client simply never finds anything.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse is the subset of the SerpAPI payload we consume.
type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Title         string `json:"title"`
	Snippet       string `json:"snippet"`
	Link          string `json:"link"`
	Source        string `json:"source"`
	DisplayedLink string `json:"displayed_link"`
}

// Search returns up to limit organic results for the query.
func (c *Client) Search(ctx context.Context, query string, limit int) []domain.WebResult {
	q := strings.TrimSpace(query)
	if q == "" || c.apiKey == "" {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}

	if err := c.limiter.Wait(ctx); err != nil {
		logger.Debug("Search rate limit wait aborted: %v", err)
		return nil
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		logger.Debug("Search request build failed: %v", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Search request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("Search returned status %d", resp.StatusCode)
		return nil
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Debug("Search payload decode failed: %v", err)
		return nil
	}

	results := make([]domain.WebResult, 0, limit)
	for _, item := range payload.OrganicResults {
		if len(results) >= limit {
			break
		}
		if item.Title == "" && item.Snippet == "" {
			continue
		}
		results = append(results, domain.WebResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
			Source:  resultSource(item),
		})
	}
	logger.Debug("Search %q returned %d results", q, len(results))
	return results
}

func resultSource(item organicResult) string {
	for _, s := range []string{item.Source, item.DisplayedLink, item.Link} {
		if s != "" {
			return s
		}
	}
	return "serpapi"
}
