package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.MaxRetries < 1 {
		return errors.New("api.max_retries must be >= 1")
	}

	if c.Proxy.Listen == "" {
		return errors.New("proxy.listen is required")
	}
	if c.Proxy.RateLimit < 1 {
		return errors.New("proxy.rate_limit must be >= 1")
	}
	if c.Proxy.RateWindow <= 0 {
		return errors.New("proxy.rate_window must be positive")
	}
	if c.Proxy.CacheTTL <= 0 {
		return errors.New("proxy.cache_ttl must be positive")
	}
	if c.Proxy.UpstreamRPS <= 0 {
		return errors.New("proxy.upstream_rps must be positive")
	}

	if c.Dataset.Path == "" {
		return errors.New("dataset.path is required")
	}

	if c.Resolver.MaxAge <= 0 {
		return errors.New("resolver.max_age must be positive")
	}
	if c.Resolver.MaxNameDistance < 1 {
		return errors.New("resolver.max_name_distance must be >= 1")
	}

	if c.Scanner.MaxCodeDistance < 0 {
		return errors.New("scanner.max_code_distance must be >= 0")
	}
	if c.Scanner.SlotCount < 1 {
		return errors.New("scanner.slot_count must be >= 1")
	}

	if c.Pipeline.Concurrency < 1 {
		return errors.New("pipeline.concurrency must be >= 1")
	}

	return nil
}
