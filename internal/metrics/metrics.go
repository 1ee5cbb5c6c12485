package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts proxy requests by route and response status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relic_proxy_requests_total",
		Help: "Proxy requests served, by route and HTTP status.",
	}, []string{"route", "status"})

	// CacheHits counts responses served from the TTL cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relic_proxy_cache_hits_total",
		Help: "Order lookups answered from the response cache.",
	})

	// CacheMisses counts lookups that went upstream.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relic_proxy_cache_misses_total",
		Help: "Order lookups that required an upstream fetch.",
	})

	// RateLimited counts requests rejected by the per-source limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relic_proxy_rate_limited_total",
		Help: "Client requests rejected at the per-source rate ceiling.",
	})

	// UpstreamErrors counts failed upstream fetches by mirrored status.
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relic_proxy_upstream_errors_total",
		Help: "Upstream fetch failures, by mirrored HTTP status.",
	}, []string{"status"})
)
