package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultUserAgent identifies og-previewer to upstream servers
const DefaultUserAgent = "Mozilla/5.0 (compatible; OGPreviewerBot/1.0)"

// ClientConfig represents HTTP client configuration
type ClientConfig struct {
	Timeout   time.Duration // zero means no timeout
	UserAgent string
	Headers   map[string]string
}

// DefaultConfig returns default HTTP client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:   0,
		UserAgent: DefaultUserAgent,
		Headers:   make(map[string]string),
	}
}

// Client represents an HTTP client that sends a fixed set of headers with every request
type Client struct {
	client *http.Client
	config *ClientConfig
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	return &Client{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// Get performs an HTTP GET request without a caller context
func (c *Client) Get(url string) (*http.Response, error) {
	return c.GetWithContext(context.Background(), url)
}

// GetWithContext performs a single HTTP GET request bound to ctx
func (c *Client) GetWithContext(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	return c.DoRequest(req)
}

// DoRequest applies the configured headers and performs the request once
func (c *Client) DoRequest(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}

	return resp, nil
}
