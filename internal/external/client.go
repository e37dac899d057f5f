package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pageza/opskrifter/internal/logging"
)

const (
	DefaultBaseURL  = "http://www.madopskrifter.nu/webservices/iphone/iphoneclientservice.svc"
	DefaultProxyURL = "https://corsproxy.io/?"
)

// Searcher is the part of the search API the browser needs
type Searcher interface {
	Search(ctx context.Context, term string) ([]Summary, error)
	Recipe(ctx context.Context, id string) (*Detail, error)
}

// Config holds the search API endpoints
type Config struct {
	BaseURL string
	// ProxyURL is prepended verbatim to every request URL; empty disables it.
	ProxyURL   string
	RatePerSec float64
	Timeout    time.Duration
}

// Client queries the third party recipe search API
type Client struct {
	baseURL    string
	proxyURL   string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewClient creates a search API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		proxyURL: cfg.ProxyURL,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSec), 2),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Search finds recipes by free text, typically an ingredient
func (c *Client) Search(ctx context.Context, term string) ([]Summary, error) {
	body, err := c.get(ctx, "/GetRecipesByFreeText/0/"+url.PathEscape(term))
	if err != nil {
		return nil, err
	}
	return DecodeSummaries(body)
}

// Recipe fetches the details of one recipe
func (c *Client) Recipe(ctx context.Context, id string) (*Detail, error) {
	body, err := c.get(ctx, "/GetRecipe/0/"+url.PathEscape(id)+"/4")
	if err != nil {
		return nil, err
	}
	d, err := DecodeDetail(body)
	if err != nil {
		return nil, err
	}
	if d.ID == "" {
		d.ID = id
	}
	return d, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := c.proxyURL + c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.New(ctx).Error("external_get", err)
		return nil, fmt.Errorf("search api request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
