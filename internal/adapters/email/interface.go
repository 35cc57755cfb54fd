package email

import (
	"context"

	"provisioning-functions/internal/models"
)

// Sender delivers a single email message through a provider
type Sender interface {
	// Send delivers msg and returns the provider's message ID
	Send(ctx context.Context, msg models.EmailMessage) (string, error)

	// Provider returns the provider name used in logs and metrics
	Provider() string
}

// validateMessage checks the fields every provider requires
func validateMessage(op string, msg models.EmailMessage) error {
	if len(msg.To) == 0 {
		return NewSendError(op, "", ErrInvalidMessage, false)
	}
	if msg.From == "" || msg.Subject == "" {
		return NewSendError(op, msg.To[0], ErrInvalidMessage, false)
	}
	return nil
}
