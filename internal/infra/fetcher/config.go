package fetcher

import (
	"fmt"
	"time"

	"github.com/AuroraDai/weihao/pkg/config"
)

// ArticleFetchConfig controls security and performance of article fetching.
type ArticleFetchConfig struct {
	// Timeout is the maximum duration for a single HTTP request.
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Responses exceeding this limit are rejected to prevent memory
	// exhaustion. Enforced while reading, not from Content-Length.
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is re-validated for SSRF.
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to private/loopback/link-local
	// addresses. Should always be true in production.
	DenyPrivateIPs bool
}

// DefaultArticleFetchConfig returns production-ready defaults.
func DefaultArticleFetchConfig() ArticleFetchConfig {
	return ArticleFetchConfig{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks the configuration for values that would weaken the
// security posture or exhaust resources.
func (c *ArticleFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d",
			minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv loads the article fetch configuration from environment
// variables, falling back to defaults, then validates it.
//
// Environment variables:
//   - ARTICLE_FETCH_TIMEOUT: duration string, e.g. "10s" (default: 10s)
//   - ARTICLE_FETCH_MAX_BODY_SIZE: bytes (default: 10485760)
//   - ARTICLE_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - ARTICLE_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv() (ArticleFetchConfig, error) {
	cfg := DefaultArticleFetchConfig()

	cfg.Timeout = config.GetEnvDuration("ARTICLE_FETCH_TIMEOUT", cfg.Timeout)
	cfg.MaxBodySize = int64(config.GetEnvInt("ARTICLE_FETCH_MAX_BODY_SIZE", int(cfg.MaxBodySize)))
	cfg.MaxRedirects = config.GetEnvInt("ARTICLE_FETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.DenyPrivateIPs = config.GetEnvBool("ARTICLE_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
