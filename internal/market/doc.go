// Package market provides the warframe.market REST API client.
//
// Endpoints used:
//   - GET /items: full catalog (name/slug pairs)
//   - GET /items/{slug}/orders: open orders for one item
//
// The API is rate limited per caller; 429 responses are retried with
// exponential backoff. In production the proxy layer is the sole caller
// of the orders endpoint.
package market
