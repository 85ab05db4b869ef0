package config

import "time"

// CacheConfig controls the Redis response cache in front of the
// leaderboard route. The cache stores fully rendered responses keyed
// under Prefix, so the submission path can invalidate every cached
// variant by deleting the prefix. A snapshot stays valid until some
// balance changes, which makes the TTL a backstop against missed
// invalidations rather than the primary freshness mechanism.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the cache settings from the environment.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      boolOr("LEADERBOARD_CACHE_ENABLED", true),
		TTL:          durOr("LEADERBOARD_CACHE_TTL", 5*time.Minute),
		Prefix:       strOr("LEADERBOARD_CACHE_PREFIX", "lb"),
		MaxBodyBytes: intOr("LEADERBOARD_CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
