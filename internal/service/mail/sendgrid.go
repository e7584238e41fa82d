package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	netmail "net/mail"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridClient implements Sender with the SendGrid v3 mail/send API.
type SendGridClient struct {
	apiKey  string
	sendURL string
}

// SendGridOption configures a SendGridClient.
type SendGridOption func(*SendGridClient)

// WithSendGridURL overrides the full mail/send URL (useful for testing).
func WithSendGridURL(url string) SendGridOption {
	return func(c *SendGridClient) {
		c.sendURL = url
	}
}

// NewSendGridClient creates a SendGrid client. An empty apiKey is allowed; Ready
// and Send then report ErrMissingAPIKey.
func NewSendGridClient(apiKey string, opts ...SendGridOption) *SendGridClient {
	c := &SendGridClient{apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sendGridErrors struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *SendGridClient) Provider() string { return ProviderSendGrid }

func (c *SendGridClient) Ready() error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *SendGridClient) Send(ctx context.Context, msg Message) (json.RawMessage, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	message := sgmail.NewSingleEmail(toSendGridAddress(msg.From), msg.Subject, toSendGridAddress(msg.To), msg.Text, msg.HTML)
	if msg.ReplyTo != "" {
		message.SetReplyTo(toSendGridAddress(msg.ReplyTo))
	}

	// The client carries the request body, so each send gets its own.
	client := sendgrid.NewSendClient(c.apiKey)
	if c.sendURL != "" {
		client.BaseURL = c.sendURL
	}

	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return nil, &ProviderError{
			Provider: ProviderSendGrid,
			Status:   http.StatusBadGateway,
			Message:  "Failed to reach SendGrid.",
			cause:    err,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := "Failed to send via SendGrid."
		var sgErr sendGridErrors
		if json.Unmarshal([]byte(resp.Body), &sgErr) == nil && len(sgErr.Errors) > 0 && sgErr.Errors[0].Message != "" {
			text = sgErr.Errors[0].Message
		}
		return nil, &ProviderError{Provider: ProviderSendGrid, Status: resp.StatusCode, Message: text}
	}

	if id := firstHeader(resp.Headers, "X-Message-Id"); id != "" {
		return json.RawMessage(fmt.Sprintf(`{"id":%q}`, id)), nil
	}
	body := strings.TrimSpace(resp.Body)
	if body == "" || !json.Valid([]byte(body)) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// toSendGridAddress accepts "Name <addr>" or a bare address.
func toSendGridAddress(raw string) *sgmail.Email {
	if addr, err := netmail.ParseAddress(raw); err == nil {
		return sgmail.NewEmail(addr.Name, addr.Address)
	}
	return sgmail.NewEmail("", strings.TrimSpace(raw))
}

func firstHeader(headers map[string][]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

var _ Sender = (*SendGridClient)(nil)
