// Package mail delivers formatted contact submissions through a transactional
// email provider. Every provider makes exactly one attempt per message.
package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Provider identifiers.
const (
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
)

// ErrMissingAPIKey means the provider cannot send because no credential is configured.
var ErrMissingAPIKey = errors.New("mail provider api key not configured")

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages through one provider.
type Sender interface {
	// Provider names the backing service.
	Provider() string
	// Ready reports ErrMissingAPIKey when the sender has no credential.
	Ready() error
	// Send makes one delivery attempt. The result is the provider's JSON
	// response, or nil when it sent none.
	Send(ctx context.Context, msg Message) (json.RawMessage, error)
}

// ProviderError is a failed delivery. Status is the provider's HTTP status,
// or 502 when the provider could not be reached.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
	cause    error
}

func (e *ProviderError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s: %v", e.Provider, e.Status, e.Message, e.cause)
}

// Unwrap exposes the transport or SDK error, if any.
func (e *ProviderError) Unwrap() error {
	return e.cause
}
