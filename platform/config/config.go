// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// WebhookConfig provides settings for the outbound pipeline automation webhook.
type WebhookConfig interface {
	GetPipelineWebhookURL() string
	GetPipelineWebhookTimeout() time.Duration
	GetPipelineWebhookMaxRetry() int
	IsPipelineWebhookEnabled() bool
}

// TenancyConfig provides settings for tenant resolution caching.
type TenancyConfig interface {
	GetRedisURL() string
	GetTenantCacheTTL() time.Duration
}

// PipelineConfig provides settings for the stage registry.
type PipelineConfig interface {
	GetPipelineDefaultsFile() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	DatabaseURL             string
	JWTAccessSecret         string
	CORSAllowAll            bool
	CORSOrigins             []string
	CORSAllowCreds          bool
	RateLimitRPS            float64
	RateLimitBurst          int
	RedisURL                string
	RedisTLSInsecure        bool
	AsynqQueueName          string
	AsynqConcurrency        int
	PipelineWebhookURL      string
	PipelineWebhookTimeout  time.Duration
	PipelineWebhookMaxRetry int
	TenantCacheTTL          time.Duration
	PipelineDefaultsFile    string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// WebhookConfig implementation
func (c *Config) GetPipelineWebhookURL() string            { return c.PipelineWebhookURL }
func (c *Config) GetPipelineWebhookTimeout() time.Duration { return c.PipelineWebhookTimeout }
func (c *Config) GetPipelineWebhookMaxRetry() int          { return c.PipelineWebhookMaxRetry }
func (c *Config) IsPipelineWebhookEnabled() bool           { return c.PipelineWebhookURL != "" }

// TenancyConfig implementation
func (c *Config) GetTenantCacheTTL() time.Duration { return c.TenantCacheTTL }

// PipelineConfig implementation
func (c *Config) GetPipelineDefaultsFile() string { return c.PipelineDefaultsFile }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		JWTAccessSecret:         getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		CORSAllowCreds:          strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:            mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:          mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		RedisURL:                getEnv("REDIS_URL", ""),
		RedisTLSInsecure:        strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:          getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:        mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		PipelineWebhookURL:      strings.TrimSpace(getEnv("PIPELINE_WEBHOOK_URL", "")),
		PipelineWebhookTimeout:  mustDuration(getEnv("PIPELINE_WEBHOOK_TIMEOUT", "10s")),
		PipelineWebhookMaxRetry: mustInt(getEnv("PIPELINE_WEBHOOK_MAX_RETRY", "5")),
		TenantCacheTTL:          mustDuration(getEnv("TENANT_CACHE_TTL", "5m")),
		PipelineDefaultsFile:    strings.TrimSpace(getEnv("PIPELINE_DEFAULTS_FILE", "")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.PipelineWebhookTimeout <= 0 {
		return nil, fmt.Errorf("PIPELINE_WEBHOOK_TIMEOUT must be a positive duration")
	}
	if cfg.PipelineWebhookMaxRetry < 0 {
		return nil, fmt.Errorf("PIPELINE_WEBHOOK_MAX_RETRY cannot be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
