// Package proxy is the boundary service between client sessions and the
// upstream pricing API. It deduplicates traffic through a TTL response
// cache, throttles clients per source, and shields them from upstream
// rate limiting by retrying with backoff and mirroring upstream statuses.
//
// Exposed surface:
//   - GET /orders/{slug}: cached-or-fresh order list
//   - GET /orders_batch?items=a,b: map of slug to orders or error
//   - GET /health, GET /metrics
package proxy
