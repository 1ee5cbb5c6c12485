// Package config defines the YAML configuration shared by the proxy
// daemon and the scan CLI, with env expansion, defaults, and validation.
package config

import "time"

// Config is the root configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Proxy    ProxyConfig    `yaml:"proxy"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Resolver ResolverConfig `yaml:"resolver"`
	Scanner  ScannerConfig  `yaml:"scanner"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	OCR      OCRConfig      `yaml:"ocr"`
}

// APIConfig holds upstream market API settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
	Platform     string        `yaml:"platform"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// ProxyConfig holds the caching proxy daemon settings.
type ProxyConfig struct {
	Listen      string        `yaml:"listen"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	RateLimit   int           `yaml:"rate_limit"`
	RateWindow  time.Duration `yaml:"rate_window"`
	BatchDelay  time.Duration `yaml:"batch_delay"`
	UpstreamRPS float64       `yaml:"upstream_rps"`
}

// DatasetConfig locates the relic reference data.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// ResolverConfig holds slug-map settings. An empty cache_path keeps the
// map in memory only.
type ResolverConfig struct {
	CachePath       string        `yaml:"cache_path"`
	MaxAge          time.Duration `yaml:"max_age"`
	MaxNameDistance int           `yaml:"max_name_distance"`
}

// ScannerConfig holds code-recovery settings.
type ScannerConfig struct {
	MaxCodeDistance int `yaml:"max_code_distance"`
	SlotCount       int `yaml:"slot_count"`
}

// PipelineConfig holds scan orchestration settings. A non-empty
// proxy_url routes order fetches through the proxy instead of hitting
// the market API directly.
type PipelineConfig struct {
	Concurrency int    `yaml:"concurrency"`
	ProxyURL    string `yaml:"proxy_url"`
}

// OCRConfig locates the recognition sidecar. An empty endpoint disables
// image scanning.
type OCRConfig struct {
	Endpoint string `yaml:"endpoint"`
}
