package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
)

const (
	defaultResendBaseURL = "https://api.resend.com"
	userAgent            = "lumenworks-site"
	maxResponseBytes     = 1 << 20
)

// ResendClient implements Sender with the Resend REST API.
type ResendClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// ResendOption configures a ResendClient.
type ResendOption func(*ResendClient)

// WithResendBaseURL sets a custom base URL (useful for testing).
func WithResendBaseURL(url string) ResendOption {
	return func(c *ResendClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// NewResendClient creates a Resend client. An empty apiKey is allowed; Ready
// and Send then report ErrMissingAPIKey.
func NewResendClient(httpClient *http.Client, apiKey string, opts ...ResendOption) *ResendClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &ResendClient{
		httpClient: httpClient,
		baseURL:    defaultResendBaseURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendError struct {
	Message string `json:"message"`
}

func (c *ResendClient) Provider() string { return ProviderResend }

func (c *ResendClient) Ready() error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *ResendClient) Send(ctx context.Context, msg Message) (json.RawMessage, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Provider: ProviderResend,
			Status:   http.StatusBadGateway,
			Message:  "Failed to reach Resend.",
			cause:    err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr != nil {
		applog.LogWarn(ctx, "resend response read failed", zap.Error(readErr))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := "Failed to send via Resend."
		var re resendError
		if json.Unmarshal(body, &re) == nil && strings.TrimSpace(re.Message) != "" {
			message = re.Message
		}
		return nil, &ProviderError{Provider: ProviderResend, Status: resp.StatusCode, Message: message}
	}

	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

var _ Sender = (*ResendClient)(nil)
