package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// ConfigError reports an invalid or missing configuration value.
type ConfigError struct {
	Key    string // Environment variable name
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Config holds global settings for the Bulwark service.
// All settings can be configured via environment variables or programmatically.
type Config struct {
	// === Core Settings ===
	Port               string // HTTP listen port (default: "8090")
	PatternOverlayPath string // Optional YAML file appending phrases to the shipped tables
	NegationWindow     int    // Token look-back for negation markers (default: 3)

	// === Aggregation Tuning ===
	// Category weights are fixed; only the saturation point is tunable.
	Saturation float64 // Per-category contribution that counts as full strength (default: 0.4)

	// === Conversation History ===
	// Empty RedisAddr keeps history in process memory.
	RedisAddr     string        // Redis address, e.g. "localhost:6379"
	RedisPassword string        // Redis AUTH password (optional)
	RedisDB       int           // Redis database number (default: 0)
	HistoryTTL    time.Duration // How long idle conversations survive (default: 24h)

	// === Assessment Archive ===
	// Empty DSN disables archiving.
	PostgresDSN string // e.g. "postgres://bulwark:pw@localhost:5432/bulwark"

	// === Threat Reporting ===
	// Empty URL disables reporting; otherwise assessments at suspicious or
	// above are POSTed there.
	ReportURL         string // Webhook endpoint
	ReportTimeoutMs   int    // Per-delivery timeout in milliseconds (default: 5000)
	ReportConcurrency int    // Max in-flight deliveries (default: 4)

	// === Access Control ===
	APIKey string // Bearer token for the assess endpoint (required in production)
}

// NewDefaultConfig creates a Config with sensible defaults.
// All settings can be overridden via environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		// Core
		Port:               GetEnv("BULWARK_PORT", "8090"),
		PatternOverlayPath: GetEnv("BULWARK_PATTERNS", ""),
		NegationWindow:     clampInt(GetEnvInt("BULWARK_NEGATION_WINDOW", 3), 1, 10),

		// Aggregation
		Saturation: GetEnvFloat("BULWARK_SATURATION", risk.DefaultSaturation),

		// History
		RedisAddr:     GetEnv("BULWARK_REDIS_ADDR", ""),
		RedisPassword: GetEnv("BULWARK_REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("BULWARK_REDIS_DB", 0),
		HistoryTTL:    time.Duration(GetEnvInt("BULWARK_HISTORY_TTL_SECONDS", 86400)) * time.Second,

		// Archive
		PostgresDSN: GetEnv("BULWARK_POSTGRES_DSN", ""),

		// Reporting
		ReportURL:         GetEnv("BULWARK_REPORT_URL", ""),
		ReportTimeoutMs:   GetEnvInt("BULWARK_REPORT_TIMEOUT_MS", 5000),
		ReportConcurrency: clampInt(GetEnvInt("BULWARK_REPORT_CONCURRENCY", 4), 1, 64),

		// Access control
		APIKey: GetEnv("BULWARK_API_KEY", ""),
	}
}

// NewLocalConfig creates a Config for local-only operation: in-memory
// history, no archive, no reporting. Use for development or air-gapped runs.
func NewLocalConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.RedisAddr = ""
	cfg.PostgresDSN = ""
	cfg.ReportURL = ""
	return cfg
}

// AggregateConfig materializes the risk aggregation settings. Weights and
// gates are compiled in; only the saturation point comes from config.
func (c *Config) AggregateConfig() risk.AggregateConfig {
	agg := risk.DefaultAggregateConfig()
	if c.Saturation > 0 {
		agg.Saturation = c.Saturation
	}
	return agg
}

// IsProduction reports whether BULWARK_ENV marks this as a production run.
func IsProduction() bool {
	env := strings.ToLower(os.Getenv("BULWARK_ENV"))
	return env == "production" || env == "prod"
}

// Validate checks that the configuration is internally consistent.
// In production mode it also requires the API key; in development it logs a
// warning and allows startup for local testing.
func (c *Config) Validate() error {
	if c.NegationWindow < 1 {
		return &ConfigError{Key: "BULWARK_NEGATION_WINDOW", Reason: "must be at least 1"}
	}
	if c.Saturation <= 0 || c.Saturation > 1 {
		return &ConfigError{Key: "BULWARK_SATURATION", Reason: fmt.Sprintf("%v outside (0,1]", c.Saturation)}
	}
	if c.HistoryTTL < 0 {
		return &ConfigError{Key: "BULWARK_HISTORY_TTL_SECONDS", Reason: "must not be negative"}
	}
	if c.ReportURL != "" {
		u, err := url.Parse(c.ReportURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ConfigError{Key: "BULWARK_REPORT_URL", Reason: "must be an absolute URL"}
		}
	}
	if c.ReportTimeoutMs < 1 {
		return &ConfigError{Key: "BULWARK_REPORT_TIMEOUT_MS", Reason: "must be at least 1"}
	}

	if err := c.AggregateConfig().Validate(); err != nil {
		return fmt.Errorf("config: aggregation settings: %w", err)
	}

	if c.APIKey == "" {
		if IsProduction() {
			return &ConfigError{Key: "BULWARK_API_KEY", Reason: "required in production"}
		}
		log.Printf("[STARTUP] Warning: BULWARK_API_KEY not set - assess endpoint is unauthenticated")
	}
	return nil
}

// MustValidate calls Validate and fatally exits if validation fails.
// Call this at startup before starting the server.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: Configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}

// Helper functions for environment variable parsing.
// Exported for use by other packages.

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvSlice returns a comma-separated list from an environment variable or a default value.
func GetEnvSlice(key string, defaultValue []string) []string {
	if v := os.Getenv(key); v != "" {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

// clampInt ensures a value is within bounds.
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
