package market

import (
	"log/slog"
	"net/http"
	"time"
)

// Client provides access to the warframe.market REST API.
type Client struct {
	baseURL    string
	userAgent  string
	platform   string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. userAgent should identify the
// operator (the upstream asks for a contact address).
func NewClient(baseURL, userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		platform:  "pc",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPlatform sets the platform query parameter for order fetches.
func WithPlatform(platform string) ClientOption {
	return func(c *Client) {
		c.platform = platform
	}
}
