// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns the defaults; Load(ctx) layers a YAML file and env vars on top.
// - All loading functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// JobQueueSize bounds the in-memory look-job queue.
	JobQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of stylist workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize and DedupeTTLSec bound the idempotency-key cache.
	DedupeSize   int `koanf:"dedupe_size"`
	DedupeTTLSec int `koanf:"dedupe_ttl_sec"`

	// PlanStoreSize caps how many plans the in-memory store keeps.
	PlanStoreSize int `koanf:"plan_store_size"`

	// MaxHistoryLimit caps GET /history/{user_id}?limit.
	MaxHistoryLimit int `koanf:"max_history_limit"`

	// Feature flags.
	EnableStylist  bool `koanf:"enable_stylist"`
	EnableWardrobe bool `koanf:"enable_wardrobe"`

	// Generative endpoint settings.
	GeminiAPIKey     string  `koanf:"gemini_api_key"`
	GeminiBaseURL    string  `koanf:"gemini_base_url"`
	GeminiModel      string  `koanf:"gemini_model"`
	GeminiTimeoutMS  int     `koanf:"gemini_timeout_ms"`
	GeminiRatePerSec float64 `koanf:"gemini_rate_per_sec"`
	GeminiBurst      int     `koanf:"gemini_burst"`

	// TagConcurrency limits parallel garment tagging calls per request.
	TagConcurrency int `koanf:"tag_concurrency"`

	// Prometheus naming and collection. Buckets and labels are usually set
	// from the YAML file.
	MetricsNamespace      string            `koanf:"metrics_namespace"`
	MetricsSubsystem      string            `koanf:"metrics_subsystem"`
	MetricsRefreshSec     int               `koanf:"metrics_refresh_sec"`
	MetricsLatencyBuckets []float64         `koanf:"metrics_latency_buckets"`
	MetricsLabels         map[string]string `koanf:"metrics_labels"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		JobQueueSize:     1_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       50_000,
		DedupeTTLSec:     600,
		PlanStoreSize:    100_000,
		MaxHistoryLimit:  100,
		EnableStylist:    false,
		EnableWardrobe:   true,
		GeminiBaseURL:    "https://generativelanguage.googleapis.com/v1beta",
		GeminiModel:      "gemini-1.5-flash",
		GeminiTimeoutMS:  30_000,
		GeminiRatePerSec: 5,
		GeminiBurst:      5,
		TagConcurrency:   4,

		MetricsNamespace:  "glowplan",
		MetricsSubsystem:  "service",
		MetricsRefreshSec: 10,
	}
}

// GeminiTimeout returns the outbound request timeout.
func (c *Config) GeminiTimeout() time.Duration {
	return time.Duration(c.GeminiTimeoutMS) * time.Millisecond
}

// DedupeTTL returns how long idempotency keys are remembered.
func (c *Config) DedupeTTL() time.Duration {
	return time.Duration(c.DedupeTTLSec) * time.Second
}

// MetricsRefresh returns how often system gauges are sampled.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshSec) * time.Second
}

// Validate checks the fields Load cannot default away.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.JobQueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.PlanStoreSize < 1:
		return fmt.Errorf("%w: plan_store_size must be positive", ErrInvalidConfig)
	case c.MetricsRefreshSec < 1:
		return fmt.Errorf("%w: metrics_refresh_sec must be positive", ErrInvalidConfig)
	case c.GeminiTimeoutMS < 1:
		return fmt.Errorf("%w: gemini_timeout_ms must be positive", ErrInvalidConfig)
	case c.EnableStylist && strings.TrimSpace(c.GeminiBaseURL) == "":
		return fmt.Errorf("%w: gemini_base_url is required when the stylist is enabled", ErrInvalidConfig)
	}
	return nil
}
