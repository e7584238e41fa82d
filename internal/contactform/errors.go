package contactform

import (
	"fmt"
	"net/http"
)

// ValidationError reports bad or incomplete user input. Message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StatusCode returns 400.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// ConfigError reports missing deployment settings such as addresses or API keys.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// StatusCode returns 500.
func (e *ConfigError) StatusCode() int { return http.StatusInternalServerError }

// DeliveryError reports a provider that rejected or never received the email.
// Status and Message come from the provider and must not reach the submitter.
type DeliveryError struct {
	Provider string
	Status   int
	Message  string
	cause    error
}

// NewDeliveryError wraps a provider failure.
func NewDeliveryError(provider string, status int, message string, cause error) *DeliveryError {
	return &DeliveryError{Provider: provider, Status: status, Message: message, cause: cause}
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed (status=%d): %s", e.Provider, e.Status, e.Message)
}

// StatusCode returns the upstream status.
func (e *DeliveryError) StatusCode() int { return e.Status }

// Unwrap exposes the provider error.
func (e *DeliveryError) Unwrap() error { return e.cause }
