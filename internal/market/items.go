package market

import (
	"context"
	"fmt"
	"net/url"
)

// GetItems fetches the full catalog of tradable items.
func (c *Client) GetItems(ctx context.Context) ([]CatalogItem, error) {
	var resp ItemsResponse
	if err := c.get(ctx, "/items", nil, &resp); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return resp.Payload.Items, nil
}

// GetOrders fetches open orders for one item slug.
func (c *Client) GetOrders(ctx context.Context, slug string) ([]Order, error) {
	query := url.Values{}
	if c.platform != "" {
		query.Set("platform", c.platform)
	}

	var resp OrdersResponse
	if err := c.get(ctx, "/items/"+url.PathEscape(slug)+"/orders", query, &resp); err != nil {
		return nil, fmt.Errorf("get orders %s: %w", slug, err)
	}
	return resp.Payload.Orders, nil
}
