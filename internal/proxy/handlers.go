package proxy

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/relicscan/relic-data/internal/market"
	"github.com/relicscan/relic-data/internal/metrics"
	"github.com/relicscan/relic-data/internal/scheduler"
)

// BatchEntry is one slug's result in a batch response: orders on success,
// error plus mirrored status on failure.
type BatchEntry struct {
	Orders []market.Order `json:"orders,omitempty"`
	Error  string         `json:"error,omitempty"`
	Status int            `json:"status,omitempty"`
}

// handleOrders serves GET /orders/:slug.
func (s *Server) handleOrders(c *gin.Context) {
	if !s.limiter.Allow(c.ClientIP()) {
		metrics.RateLimited.Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	slug := c.Param("slug")

	if orders, ok := s.cache.get(slug); ok {
		metrics.CacheHits.Inc()
		c.JSON(http.StatusOK, gin.H{"payload": gin.H{"orders": orders}})
		return
	}
	metrics.CacheMisses.Inc()

	orders, err := s.fetchUpstream(c.Request.Context(), slug)
	if err != nil {
		status := market.StatusOf(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		s.logger.Warn("upstream fetch failed",
			"slug", slug,
			"status", status,
			"err", err,
		)
		c.JSON(status, gin.H{"error": err.Error(), "status": status})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payload": gin.H{"orders": orders}})
}

// handleOrdersBatch serves GET /orders_batch?items=a,b,c. The response
// carries one entry per requested slug; a failure on one slug never
// blocks the others. Cached members are answered without delay, uncached
// members are fetched under the fixed-interval policy.
func (s *Server) handleOrdersBatch(c *gin.Context) {
	if !s.limiter.Allow(c.ClientIP()) {
		metrics.RateLimited.Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	var slugs []string
	for _, raw := range strings.Split(c.Query("items"), ",") {
		if slug := strings.TrimSpace(raw); slug != "" {
			slugs = append(slugs, slug)
		}
	}
	if len(slugs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no items requested"})
		return
	}

	results := make(map[string]BatchEntry, len(slugs))

	var uncached []string
	for _, slug := range slugs {
		if _, done := results[slug]; done {
			continue
		}
		if orders, ok := s.cache.get(slug); ok {
			metrics.CacheHits.Inc()
			results[slug] = BatchEntry{Orders: orders}
			continue
		}
		metrics.CacheMisses.Inc()
		results[slug] = BatchEntry{}
		uncached = append(uncached, slug)
	}

	tasks := make([]scheduler.Task[[]market.Order], len(uncached))
	for i, slug := range uncached {
		slug := slug
		tasks[i] = func(ctx context.Context) ([]market.Order, error) {
			return s.fetchUpstream(ctx, slug)
		}
	}

	for i, r := range scheduler.Paced(c.Request.Context(), tasks, s.cfg.BatchDelay) {
		slug := uncached[i]
		if r.Err != nil {
			status := market.StatusOf(r.Err)
			if status == 0 {
				status = http.StatusBadGateway
			}
			results[slug] = BatchEntry{Error: r.Err.Error(), Status: status}
			continue
		}
		results[slug] = BatchEntry{Orders: r.Value}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
