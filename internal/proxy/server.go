package proxy

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/relicscan/relic-data/internal/market"
	"github.com/relicscan/relic-data/internal/metrics"
)

// Config holds proxy settings.
type Config struct {
	CacheTTL    time.Duration // response cache entry lifetime
	RateLimit   int           // client requests per window per source
	RateWindow  time.Duration // fixed rate-limit window
	BatchDelay  time.Duration // pause between uncached batch fetches
	UpstreamRPS float64       // outbound ceiling toward the upstream API
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:    90 * time.Second,
		RateLimit:   60,
		RateWindow:  time.Minute,
		BatchDelay:  300 * time.Millisecond,
		UpstreamRPS: 3,
	}
}

// Upstream fetches orders from the pricing API. In production this is a
// *market.Client; retry with backoff on 429 lives there.
type Upstream interface {
	GetOrders(ctx context.Context, slug string) ([]market.Order, error)
}

// Server is the proxy service.
type Server struct {
	cfg      Config
	upstream Upstream
	logger   *slog.Logger

	cache   *responseCache
	limiter *sourceLimiter
	pace    *rate.Limiter
}

// New creates a proxy server. Zero config fields fall back to defaults.
func New(cfg Config, upstream Upstream, logger *slog.Logger) *Server {
	def := DefaultConfig()
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.RateWindow == 0 {
		cfg.RateWindow = def.RateWindow
	}
	if cfg.BatchDelay == 0 {
		cfg.BatchDelay = def.BatchDelay
	}
	if cfg.UpstreamRPS == 0 {
		cfg.UpstreamRPS = def.UpstreamRPS
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:      cfg,
		upstream: upstream,
		logger:   logger,
		cache:    newResponseCache(cfg.CacheTTL),
		limiter:  newSourceLimiter(cfg.RateLimit, cfg.RateWindow),
		pace:     rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), 1),
	}
}

// Router builds the gin engine with all routes installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "relic-proxy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/orders/:slug", s.handleOrders)
	r.GET("/orders_batch", s.handleOrdersBatch)

	return r
}

// requestLog attaches a request ID and emits one access log line per
// request.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()

		s.logger.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"source", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}

// fetchUpstream performs one paced upstream fetch and caches the result.
func (s *Server) fetchUpstream(ctx context.Context, slug string) ([]market.Order, error) {
	if err := s.pace.Wait(ctx); err != nil {
		return nil, err
	}

	orders, err := s.upstream.GetOrders(ctx, slug)
	if err != nil {
		status := market.StatusOf(err)
		metrics.UpstreamErrors.WithLabelValues(strconv.Itoa(status)).Inc()
		return nil, err
	}

	s.cache.set(slug, orders)
	return orders, nil
}
