// Package config provides application configuration loading from environment variables and .env files.
// It uses viper for flexible configuration management with sensible defaults.
package config

import (
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/viper"

	"github.com/TimurManjosov/tpformat/internal/logging"
	"github.com/TimurManjosov/tpformat/internal/trigger"
)

// Config holds all application configuration loaded from environment variables or .env file.
// Configuration priority: environment variables > .env file > defaults.
type Config struct {
	AppEnv           string // Application environment (dev, staging, prod)
	HTTPAddr         string // HTTP server bind address (e.g., ":8080")
	MetricsAddr      string // Metrics server bind address
	LogLevel         string // zerolog level name
	LogFormat        string // "json" or "console"
	ModePolicy       string // CNF/DNF selection policy ("presence" or "strict")
	MaxDocumentBytes int64  // Upper bound on request bodies
	RateLimitPerIP   int    // Requests per minute per client IP; 0 disables limiting
	OTLPEndpoint     string // OTLP/HTTP trace endpoint URL; empty disables tracing export
}

// Load reads configuration from environment variables and .env file (if present).
// Environment variables take precedence over .env file values.
// It does not validate; call Validate before use.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env") // Optional; silently ignored if file doesn't exist
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	setConfigDefaults(v)

	return &Config{
		AppEnv:           v.GetString("APP_ENV"),
		HTTPAddr:         v.GetString("APP_HTTP_ADDR"),
		MetricsAddr:      v.GetString("METRICS_ADDR"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		ModePolicy:       v.GetString("MODE_POLICY"),
		MaxDocumentBytes: v.GetInt64("MAX_DOCUMENT_BYTES"),
		RateLimitPerIP:   v.GetInt("RATE_LIMIT_PER_IP"),
		OTLPEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", logging.FormatJSON)
	v.SetDefault("MODE_POLICY", trigger.PolicyPresence)
	v.SetDefault("MAX_DOCUMENT_BYTES", 1<<20)
	v.SetDefault("RATE_LIMIT_PER_IP", 100)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

// ValidationError represents a configuration validation error with details about what failed.
type ValidationError struct {
	Field   string // Name of the configuration field
	Message string // Human-readable error message
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks the configuration and returns the first problem found as a
// ValidationError.
//
// Validation Rules:
//  1. HTTPAddr and MetricsAddr must be non-empty
//  2. ModePolicy must name a known policy
//  3. LogLevel and LogFormat must be accepted by the logging package
//  4. MaxDocumentBytes must be positive
//  5. RateLimitPerIP must not be negative
//  6. OTLPEndpoint, when set, must be an http(s) URL
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return ValidationError{Field: "APP_HTTP_ADDR", Message: "HTTP server address cannot be empty"}
	}
	if c.MetricsAddr == "" {
		return ValidationError{Field: "METRICS_ADDR", Message: "metrics server address cannot be empty"}
	}
	if _, err := trigger.PolicyByName(c.ModePolicy); err != nil {
		return ValidationError{Field: "MODE_POLICY", Message: err.Error()}
	}
	if _, err := logging.NewWithWriter(io.Discard, c.LogLevel, c.LogFormat); err != nil {
		return ValidationError{Field: "LOG_LEVEL/LOG_FORMAT", Message: err.Error()}
	}
	if c.MaxDocumentBytes <= 0 {
		return ValidationError{
			Field:   "MAX_DOCUMENT_BYTES",
			Message: fmt.Sprintf("must be positive, got %d", c.MaxDocumentBytes),
		}
	}
	if c.RateLimitPerIP < 0 {
		return ValidationError{
			Field:   "RATE_LIMIT_PER_IP",
			Message: fmt.Sprintf("must not be negative, got %d", c.RateLimitPerIP),
		}
	}
	if c.OTLPEndpoint != "" {
		u, err := url.Parse(c.OTLPEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ValidationError{
				Field:   "OTEL_EXPORTER_OTLP_ENDPOINT",
				Message: fmt.Sprintf("must be an http(s) URL, got %q", c.OTLPEndpoint),
			}
		}
	}
	return nil
}

// Policy returns the configured mode policy. Call Validate first.
func (c *Config) Policy() trigger.ModePolicy {
	p, err := trigger.PolicyByName(c.ModePolicy)
	if err != nil {
		return trigger.PresencePolicy{}
	}
	return p
}
