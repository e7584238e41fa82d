// Package contact delivers validated contact submissions by email.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/contactform"
	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/metrics"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/service/mail"
)

// Configuration error messages.
const (
	MsgMissingRecipient = "Contact form recipient email is not configured."
	MsgMissingSender    = "Contact form sender email is not configured."
	MsgMissingAPIKey    = "Email delivery API key is not configured."
)

// Options addresses one delivery. An empty Subject falls back to DefaultSubject.
type Options struct {
	To      string
	From    string
	Subject string
}

// DefaultSubject is the subject used when Options.Subject is empty.
func DefaultSubject(sub *contactform.Submission) string {
	return fmt.Sprintf("New contact form submission from %s", sub.FullName)
}

// Service sends submissions.
type Service interface {
	Send(ctx context.Context, sub *contactform.Submission, opts Options) (json.RawMessage, error)
	Provider() string
}

// Dispatcher implements Service on top of a mail.Sender.
type Dispatcher struct {
	sender  mail.Sender
	metrics *metrics.Metrics
	clock   clockwork.Clock
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics records delivery attempts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithClock sets the clock used to time provider calls.
func WithClock(c clockwork.Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

// NewDispatcher creates a Dispatcher delivering through sender.
func NewDispatcher(sender mail.Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{sender: sender, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Provider names the mail provider in use.
func (d *Dispatcher) Provider() string {
	if d.sender == nil {
		return ""
	}
	return d.sender.Provider()
}

// Send formats sub and makes one delivery attempt. Missing addresses or
// credentials yield *contactform.ConfigError; provider failures yield
// *contactform.DeliveryError carrying the upstream status.
func (d *Dispatcher) Send(ctx context.Context, sub *contactform.Submission, opts Options) (json.RawMessage, error) {
	if strings.TrimSpace(opts.To) == "" {
		return nil, &contactform.ConfigError{Message: MsgMissingRecipient}
	}
	if strings.TrimSpace(opts.From) == "" {
		return nil, &contactform.ConfigError{Message: MsgMissingSender}
	}
	if d.sender == nil || d.sender.Ready() != nil {
		return nil, &contactform.ConfigError{Message: MsgMissingAPIKey}
	}

	email, err := contactform.FormatSubmission(sub)
	if err != nil {
		return nil, fmt.Errorf("formatting submission: %w", err)
	}
	subject := strings.TrimSpace(opts.Subject)
	if subject == "" {
		subject = DefaultSubject(sub)
	}

	provider := d.sender.Provider()
	start := d.clock.Now()
	result, err := d.sender.Send(ctx, mail.Message{
		From:    opts.From,
		To:      opts.To,
		ReplyTo: sub.Email,
		Subject: subject,
		HTML:    email.HTML,
		Text:    email.Text,
	})
	elapsed := d.clock.Since(start)

	if err != nil {
		if errors.Is(err, mail.ErrMissingAPIKey) {
			return nil, &contactform.ConfigError{Message: MsgMissingAPIKey}
		}
		var perr *mail.ProviderError
		if errors.As(err, &perr) {
			d.metrics.ObserveDelivery(provider, strconv.Itoa(perr.Status), elapsed)
			applog.LogWarn(ctx, "email delivery failed",
				zap.String("provider", provider),
				zap.Int("status", perr.Status),
				zap.String("upstream_message", perr.Message),
			)
			return nil, contactform.NewDeliveryError(provider, perr.Status, perr.Message, perr)
		}
		d.metrics.ObserveDelivery(provider, "error", elapsed)
		return nil, contactform.NewDeliveryError(provider, http.StatusBadGateway, err.Error(), err)
	}

	d.metrics.ObserveDelivery(provider, "ok", elapsed)
	return result, nil
}

var _ Service = (*Dispatcher)(nil)
