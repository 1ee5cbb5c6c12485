package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/relicscan/relic-data/internal/market"
)

// Client consumes the proxy's exposed surface. It satisfies the same
// order-source shape as *market.Client, so the pipeline can talk to
// either; production pipelines go through the proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a proxy client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Generous: a paced batch of uncached items takes a while.
			Timeout: 2 * time.Minute,
		},
	}
}

type singleResponse struct {
	Payload struct {
		Orders []market.Order `json:"orders"`
	} `json:"payload"`
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// GetOrders fetches one item's orders through the proxy. Non-2xx
// responses surface as *market.APIError carrying the mirrored status.
func (c *Client) GetOrders(ctx context.Context, slug string) ([]market.Order, error) {
	body, status, err := c.doGet(ctx, "/orders/"+url.PathEscape(slug))
	if err != nil {
		return nil, err
	}

	var resp singleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal proxy response: %w", err)
	}

	if status >= 400 {
		msg := resp.Error
		if msg == "" {
			msg = http.StatusText(status)
		}
		return nil, &market.APIError{StatusCode: status, Message: msg, Body: body}
	}

	return resp.Payload.Orders, nil
}

type batchResponse struct {
	Results map[string]BatchEntry `json:"results"`
}

// GetOrdersBatch fetches several items in one round trip. The returned
// map has one entry per requested slug.
func (c *Client) GetOrdersBatch(ctx context.Context, slugs []string) (map[string]BatchEntry, error) {
	query := url.Values{"items": {strings.Join(slugs, ",")}}

	body, status, err := c.doGet(ctx, "/orders_batch?"+query.Encode())
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, &market.APIError{StatusCode: status, Message: http.StatusText(status), Body: body}
	}

	var resp batchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal batch response: %w", err)
	}
	return resp.Results, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return body, resp.StatusCode, nil
}
