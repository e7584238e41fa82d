// Package weather resolves current conditions for a city from OpenWeather
// and normalizes them into a Snapshot.
package weather

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// SourceLive marks snapshots built from an upstream response.
const SourceLive = "live"

// Error messages.
const (
	MsgMissingCity   = `Missing "city" query param`
	MsgNotConfigured = "Weather service is not configured."
	MsgUnreachable   = "Failed to reach OpenWeather."
	MsgMalformed     = "Malformed response."
	MsgUpstream      = "OpenWeather request failed."
)

// UnitsMetric is the unit system TempC is reported in. The HTTP handler
// always requests it.
const UnitsMetric = "metric"

// Query selects the city to look up. Units defaults to UnitsMetric.
type Query struct {
	City  string
	Key   string
	Units string
}

// Snapshot is the normalized current weather for a city.
type Snapshot struct {
	City        string     `json:"city"`
	Condition   string     `json:"condition"`
	Description string     `json:"description"`
	TempC       int        `json:"tempC"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	IsNight     bool       `json:"isNight"`
	Sunrise     *time.Time `json:"sunrise"`
	Sunset      *time.Time `json:"sunset"`
	Source      string     `json:"source"`
}

// nightAt reports whether now falls before sunrise or after sunset. It is
// false unless both are known.
func (s *Snapshot) nightAt(now time.Time) bool {
	if s.Sunrise == nil || s.Sunset == nil {
		return false
	}
	return now.Before(*s.Sunrise) || now.After(*s.Sunset)
}

// Service looks up current weather.
type Service interface {
	Current(ctx context.Context, q Query) (*Snapshot, error)
}

// ConfigError reports a missing city (400) or a missing API key (500).
type ConfigError struct {
	Status  int
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// StatusCode returns the HTTP status for the error.
func (e *ConfigError) StatusCode() int { return e.Status }

// FetchError reports an upstream failure. Status is forwarded from OpenWeather,
// or 502 when it could not be reached.
type FetchError struct {
	Status  int
	Message string
	cause   error
}

func (e *FetchError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("openweather: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("openweather: status %d: %s: %v", e.Status, e.Message, e.cause)
}

// StatusCode returns the HTTP status for the error.
func (e *FetchError) StatusCode() int { return e.Status }

// Unwrap exposes the transport or decoding error, if any.
func (e *FetchError) Unwrap() error { return e.cause }

func errMissingCity() *ConfigError {
	return &ConfigError{Status: http.StatusBadRequest, Message: MsgMissingCity}
}

func errNotConfigured() *ConfigError {
	return &ConfigError{Status: http.StatusInternalServerError, Message: MsgNotConfigured}
}
