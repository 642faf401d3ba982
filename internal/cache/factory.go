package cache

import (
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL is the Redis connection URL. When empty, an in-memory
	// cache is used instead.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited).
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup.
	CleanupInterval time.Duration
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      time.Hour,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache based on the provided configuration.
// If RedisURL is set, a Redis cache is created; otherwise an in-memory cache.
func New(cfg Config) (Cacher, error) {
	if cfg.RedisURL != "" {
		return NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	}), nil
}

// NewWithTTL creates a simple memory cache with the specified TTL.
func NewWithTTL(ttl time.Duration) Cacher {
	return NewSimpleMemoryCache(ttl)
}
