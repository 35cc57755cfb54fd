package email

import (
	"context"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v2"

	"provisioning-functions/internal/models"
)

// ResendSender sends mail through the Resend HTTP API
type ResendSender struct {
	client *resend.Client
}

// NewResendSender creates a sender for the given API key
func NewResendSender(apiKey string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &ResendSender{client: resend.NewClient(apiKey)}, nil
}

// WithBaseURL points the client at another API host
func (s *ResendSender) WithBaseURL(raw string) (*ResendSender, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}
	s.client.BaseURL = u
	return s, nil
}

// Provider implements Sender.Provider
func (s *ResendSender) Provider() string {
	return "resend"
}

// Send implements Sender.Send
func (s *ResendSender) Send(ctx context.Context, msg models.EmailMessage) (string, error) {
	if err := validateMessage("resend.Send", msg); err != nil {
		return "", err
	}

	resp, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", NewSendError("resend.Send", msg.To[0], fmt.Errorf("%w: %v", ErrProviderRejected, err), ctx.Err() == nil)
	}

	return resp.Id, nil
}
