// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"LOCMENU_DB_PATH" envDefault:"./data/locmenu.db"`
	SessionSecret string `env:"LOCMENU_SESSION_SECRET,required"`
	MenuToken     string `env:"LOCMENU_MENU_TOKEN,required"` // Shared token clients must present on menu API requests
	ServerHost    string `env:"LOCMENU_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"LOCMENU_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"LOCMENU_ENV" envDefault:"development"`
	LogLevel      string `env:"LOCMENU_LOG_LEVEL" envDefault:"info"`

	// Location hierarchy configuration
	StateLayerEnabled bool   `env:"LOCMENU_STATE_LAYER_ENABLED" envDefault:"false"` // Paths carry a state segment above cities
	DefaultState      string `env:"LOCMENU_DEFAULT_STATE"`                          // State slug assumed when a URL omits its state segment
	DefaultCity       string `env:"LOCMENU_DEFAULT_CITY"`                           // City slug used when no city can be detected
	UppercaseMenu     bool   `env:"LOCMENU_UPPERCASE_MENU" envDefault:"false"`      // Render menu labels in uppercase

	// Cache configuration
	RedisURL     string `env:"LOCMENU_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"LOCMENU_CACHE_PREFIX" envDefault:"locmenu:"` // Redis key prefix
	CacheTTL     int    `env:"LOCMENU_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"LOCMENU_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"LOCMENU_GEOIP_DB_PATH"` // Path to GeoLite2-City.mmdb file

	// Seeding configuration
	DoSeed bool `env:"LOCMENU_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("LOCMENU_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("LOCMENU_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("LOCMENU_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.StateLayerEnabled && cfg.DefaultState == "" {
		slog.Warn("LOCMENU_STATE_LAYER_ENABLED is set without LOCMENU_DEFAULT_STATE; " +
			"URLs without a state segment will not resolve")
	}

	cfg.DefaultState = strings.ToLower(cfg.DefaultState)
	cfg.DefaultCity = strings.ToLower(cfg.DefaultCity)

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
