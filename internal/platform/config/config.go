// Package config loads the service settings from the environment once at
// startup. Business logic receives a *Config and never reads os.Getenv itself.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultContactTo receives submissions when neither CONTACT_FORM_TO nor
// CONTACT_FORM_EMAIL is set.
const DefaultContactTo = "hello@lumenworks.studio"

// Email providers accepted by EMAIL_PROVIDER.
const (
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port     string
	LogLevel string

	ContactAllowOrigin string
	ContactTo          string
	ContactFrom        string

	EmailProvider  string
	ResendAPIKey   string
	SendGridAPIKey string
	AWSRegion      string

	WeatherAPIKey   string
	WeatherCacheURL string
	WeatherCacheTTL time.Duration

	UpstreamTimeout time.Duration
	MetricsEnabled  bool
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
// Missing credentials are not an error here; handlers report them per request.
func Load() (*Config, error) {
	cacheTTL, err := parseDuration("WEATHER_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	metricsEnabled, err := parseBool("METRICS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(envOrDefault("EMAIL_PROVIDER", ProviderResend))
	switch provider {
	case ProviderResend, ProviderSendGrid, ProviderSES:
	default:
		return nil, fmt.Errorf("invalid EMAIL_PROVIDER %q (want resend, sendgrid or ses)", provider)
	}

	cfg := &Config{
		Port:     envOrDefault("PORT", "8080"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		ContactAllowOrigin: envOrDefault("CONTACT_FORM_ALLOW_ORIGIN", "*"),
		ContactTo:          firstEnv(DefaultContactTo, "CONTACT_FORM_TO", "CONTACT_FORM_EMAIL"),
		ContactFrom:        env("CONTACT_FORM_FROM"),

		EmailProvider:  provider,
		ResendAPIKey:   env("RESEND_API_KEY"),
		SendGridAPIKey: env("SENDGRID_API_KEY"),
		AWSRegion:      env("AWS_REGION"),

		WeatherAPIKey:   firstEnv("", "OPENWEATHER_KEY", "WEATHER_API_KEY"),
		WeatherCacheURL: env("WEATHER_CACHE_URL"),
		WeatherCacheTTL: cacheTTL,

		UpstreamTimeout: upstreamTimeout,
		MetricsEnabled:  metricsEnabled,
	}
	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envOrDefault(key, fallback string) string {
	if v := env(key); v != "" {
		return v
	}
	return fallback
}

// firstEnv returns the first non-empty variable among keys, else fallback.
func firstEnv(fallback string, keys ...string) string {
	for _, k := range keys {
		if v := env(k); v != "" {
			return v
		}
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	raw := env(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, raw)
	}
	return b, nil
}
