package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware, which
// wraps only the public event-browse routes.  When Enabled is false or
// no Redis client is available, caching is disabled.  Methods lists the
// HTTP methods to cache, TTL the entry lifetime, Prefix the key
// namespace and MaxBodyBytes the largest cacheable response.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenv("CACHE_ENABLED", "true") == "true",
		Methods:      parseMethods(getenv("CACHE_METHODS", "GET")),
		TTL:          parseDur(getenv("CACHE_TTL", "30s")),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: atoiDefault(getenv("CACHE_MAX_BODY_BYTES", "1048576"), 1048576),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
