package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPIBaseURL   = "https://api.warframe.market/v1"
	DefaultUserAgent    = "relic-data"
	DefaultPlatform     = "pc"
	DefaultAPITimeout   = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 1 * time.Second

	DefaultListen      = ":8080"
	DefaultCacheTTL    = 90 * time.Second
	DefaultRateLimit   = 60
	DefaultRateWindow  = 1 * time.Minute
	DefaultBatchDelay  = 300 * time.Millisecond
	DefaultUpstreamRPS = 3

	DefaultDatasetPath = "relics.json"

	DefaultSlugMaxAge      = 7 * 24 * time.Hour
	DefaultNameDistance    = 3
	DefaultCodeDistance    = 1
	DefaultSlotCount       = 4
	DefaultScanConcurrency = 4
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIBaseURL
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = DefaultUserAgent
	}
	if c.API.Platform == "" {
		c.API.Platform = DefaultPlatform
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Proxy defaults
	if c.Proxy.Listen == "" {
		c.Proxy.Listen = DefaultListen
	}
	if c.Proxy.CacheTTL == 0 {
		c.Proxy.CacheTTL = DefaultCacheTTL
	}
	if c.Proxy.RateLimit == 0 {
		c.Proxy.RateLimit = DefaultRateLimit
	}
	if c.Proxy.RateWindow == 0 {
		c.Proxy.RateWindow = DefaultRateWindow
	}
	if c.Proxy.BatchDelay == 0 {
		c.Proxy.BatchDelay = DefaultBatchDelay
	}
	if c.Proxy.UpstreamRPS == 0 {
		c.Proxy.UpstreamRPS = DefaultUpstreamRPS
	}

	// Dataset defaults
	if c.Dataset.Path == "" {
		c.Dataset.Path = DefaultDatasetPath
	}

	// Resolver defaults. CachePath stays empty: persistence is opt-in.
	if c.Resolver.MaxAge == 0 {
		c.Resolver.MaxAge = DefaultSlugMaxAge
	}
	if c.Resolver.MaxNameDistance == 0 {
		c.Resolver.MaxNameDistance = DefaultNameDistance
	}

	// Scanner defaults
	if c.Scanner.MaxCodeDistance == 0 {
		c.Scanner.MaxCodeDistance = DefaultCodeDistance
	}
	if c.Scanner.SlotCount == 0 {
		c.Scanner.SlotCount = DefaultSlotCount
	}

	// Pipeline defaults
	if c.Pipeline.Concurrency == 0 {
		c.Pipeline.Concurrency = DefaultScanConcurrency
	}
}
