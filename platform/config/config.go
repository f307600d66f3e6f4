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

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// GeminiConfig provides settings for the Gemini model transport.
type GeminiConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetGeminiTemperature() float32
}

// CatalogConfig provides settings for the catalog sheet source.
type CatalogConfig interface {
	GetCatalogSheetURL() string
}

// SessionConfig provides settings for the chat session store.
type SessionConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetSessionTTL() time.Duration
	IsRedisEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env               string
	HTTPAddr          string
	CORSAllowAll      bool
	CORSOrigins       []string
	RateLimitRPS      float64
	RateLimitBurst    int
	GeminiAPIKey      string
	GeminiModel       string
	GeminiTemperature float32
	CatalogSheetURL   string
	RedisEnabled      bool
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SessionTTL        time.Duration
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	// Best effort: a missing .env file is fine in production.
	_ = godotenv.Load()

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:      getEnvBool("CORS_ALLOW_ALL", true),
		CORSOrigins:       getEnvList("CORS_ORIGINS"),
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 10),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiTemperature: float32(getEnvFloat("GEMINI_TEMPERATURE", 0.3)),
		CatalogSheetURL:   os.Getenv("CATALOG_SHEET_URL"),
		RedisEnabled:      getEnvBool("REDIS_ENABLED", false),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		SessionTTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.CatalogSheetURL == "" {
		return nil, fmt.Errorf("CATALOG_SHEET_URL is required")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool           { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetRateLimitRPS() float64        { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int          { return c.RateLimitBurst }
func (c *Config) GetGeminiAPIKey() string         { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string          { return c.GeminiModel }
func (c *Config) GetGeminiTemperature() float32   { return c.GeminiTemperature }
func (c *Config) GetCatalogSheetURL() string      { return c.CatalogSheetURL }
func (c *Config) GetRedisAddr() string            { return c.RedisAddr }
func (c *Config) GetRedisPassword() string        { return c.RedisPassword }
func (c *Config) GetRedisDB() int                 { return c.RedisDB }
func (c *Config) GetSessionTTL() time.Duration    { return c.SessionTTL }
func (c *Config) IsRedisEnabled() bool            { return c.RedisEnabled }

// =============================================================================
// Env helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
