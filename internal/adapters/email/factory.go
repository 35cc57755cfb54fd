package email

import (
	"context"
	"fmt"

	"provisioning-functions/internal/config"
)

// NewSender creates the Sender selected by cfg.Provider.
// It returns ErrNotConfigured when the provider credential is missing.
func NewSender(ctx context.Context, cfg config.EmailConfig) (Sender, error) {
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}

	switch cfg.Provider {
	case config.ProviderResend, "":
		return NewResendSender(cfg.ResendAPIKey)
	case config.ProviderSES:
		return NewSESSender(ctx, cfg.SESAccessKeyID, cfg.SESSecretAccessKey, cfg.SESRegion)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}
