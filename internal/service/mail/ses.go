package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
)

// SESAPI is the subset of the SESv2 client used by SESClient.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESClient implements Sender with Amazon SES v2. Credentials come from the
// AWS default chain, so Ready never reports a missing key.
type SESClient struct {
	api SESAPI
}

// NewSESClient wraps an existing SESv2 client.
func NewSESClient(api SESAPI) *SESClient {
	return &SESClient{api: api}
}

// NewSESClientFromEnv loads the AWS default configuration for region (empty
// uses the chain's region) with retries disabled.
func NewSESClientFromEnv(ctx context.Context, region string) (*SESClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMaxAttempts(1),
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewSESClient(sesv2.NewFromConfig(cfg)), nil
}

func (c *SESClient) Provider() string { return ProviderSES }

func (c *SESClient) Ready() error {
	if c.api == nil {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *SESClient) Send(ctx context.Context, msg Message) (json.RawMessage, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}

	out, err := c.api.SendEmail(ctx, input, func(o *sesv2.Options) {
		o.RetryMaxAttempts = 1
	})
	if err != nil {
		return nil, sesProviderError(err)
	}

	result, _ := json.Marshal(map[string]string{"id": aws.ToString(out.MessageId)})
	return result, nil
}

func sesProviderError(err error) *ProviderError {
	perr := &ProviderError{
		Provider: ProviderSES,
		Status:   http.StatusBadGateway,
		Message:  "Failed to reach Amazon SES.",
		cause:    err,
	}
	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) && withStatus.HTTPStatusCode() > 0 {
		perr.Status = withStatus.HTTPStatusCode()
		perr.Message = "Failed to send via Amazon SES."
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		perr.Message = apiErr.ErrorMessage()
	}
	return perr
}

var _ Sender = (*SESClient)(nil)
