package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/logging"
)

// DefaultTimeout bounds every call to the catalog API.
const DefaultTimeout = 15 * time.Second

// RecipeAPI is the REST contract of the catalog API
type RecipeAPI interface {
	List(ctx context.Context) ([]catalog.Recipe, error)
	Get(ctx context.Context, id string) (*catalog.Recipe, error)
	Create(ctx context.Context, recipe catalog.Recipe) (*Result, error)
	Update(ctx context.Context, id string, recipe catalog.Recipe) (*Result, error)
	Delete(ctx context.Context, id string) error
}

// Result is the answer to a create or update. Either field may be empty.
type Result struct {
	Recipe  *catalog.Recipe
	Message string
}

// Client talks to the catalog API over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// List fetches every recipe
func (c *Client) List(ctx context.Context) ([]catalog.Recipe, error) {
	body, err := c.do(ctx, http.MethodGet, "/recipes", nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Recipes []catalog.Recipe `json:"recipes"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return wrapped.Recipes, nil
	}

	var recipes []catalog.Recipe
	if err := json.Unmarshal(trimmed, &recipes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return recipes, nil
}

// Get fetches one recipe
func (c *Client) Get(ctx context.Context, id string) (*catalog.Recipe, error) {
	body, err := c.do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var recipe catalog.Recipe
	if err := json.Unmarshal(body, &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &recipe, nil
}

// Create posts a new recipe. The id of the payload is never sent.
func (c *Client) Create(ctx context.Context, recipe catalog.Recipe) (*Result, error) {
	recipe.ID = ""
	body, err := c.do(ctx, http.MethodPost, "/recipes", recipe)
	if err != nil {
		return nil, err
	}
	return decodeResult(body)
}

// Update replaces the recipe with the given id
func (c *Client) Update(ctx context.Context, id string, recipe catalog.Recipe) (*Result, error) {
	recipe.ID = id
	body, err := c.do(ctx, http.MethodPut, "/recipes/"+url.PathEscape(id), recipe)
	if err != nil {
		return nil, err
	}
	return decodeResult(body)
}

// Delete removes the recipe with the given id
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	logger := logging.New(ctx)
	start := time.Now()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error(method+" "+path, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: GenericMessage(resp.StatusCode)}
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errBody) == nil && strings.TrimSpace(errBody.Message) != "" {
			apiErr.Message = errBody.Message
		}
		logger.Warnf(method+" "+path, "status=%d message=%q", resp.StatusCode, apiErr.Message)
		return nil, apiErr
	}

	logger.Infof(method+" "+path, "status=%d latency=%s", resp.StatusCode, time.Since(start))
	return body, nil
}

func decodeResult(body []byte) (*Result, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &Result{}, nil
	}

	var envelope struct {
		catalog.Recipe
		Message string          `json:"message"`
		Nested  *catalog.Recipe `json:"recipe"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	result := &Result{Message: envelope.Message}
	switch {
	case envelope.Nested != nil:
		result.Recipe = envelope.Nested
	case envelope.ID != "" || envelope.Title != "":
		recipe := envelope.Recipe
		result.Recipe = &recipe
	}
	return result, nil
}
