// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Proxy request counts by route and status
//   - Response cache hit/miss rates
//   - Per-source rate limiter rejections
//   - Upstream call and error counts
package metrics
