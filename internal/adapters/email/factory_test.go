package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provisioning-functions/internal/config"
	"provisioning-functions/internal/models"
)

func TestNewSender(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.EmailConfig
		wantProvider string
		wantErr      error
	}{
		{
			name:         "resend with key",
			cfg:          config.EmailConfig{Provider: config.ProviderResend, ResendAPIKey: "re_key"},
			wantProvider: "resend",
		},
		{
			name:         "ses with static credentials",
			cfg:          config.EmailConfig{Provider: config.ProviderSES, SESAccessKeyID: "AKIA", SESSecretAccessKey: "secret", SESRegion: "eu-west-1"},
			wantProvider: "ses",
		},
		{
			name:    "resend without key",
			cfg:     config.EmailConfig{Provider: config.ProviderResend},
			wantErr: ErrNotConfigured,
		},
		{
			name:    "ses without secret",
			cfg:     config.EmailConfig{Provider: config.ProviderSES, SESAccessKeyID: "AKIA"},
			wantErr: ErrNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewSender(context.Background(), tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, sender.Provider())
		})
	}
}

func TestNewSender_UnsupportedProvider(t *testing.T) {
	_, err := NewSender(context.Background(), config.EmailConfig{Provider: "pigeon", ResendAPIKey: "key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported email provider")
}

func TestMockSender(t *testing.T) {
	sender := NewMockSender()
	sender.FailFor("down@example.com", nil)
	ctx := context.Background()

	msg := func(to string) models.EmailMessage {
		return models.EmailMessage{From: "f@example.com", To: []string{to}, Subject: "s"}
	}

	id, err := sender.Send(ctx, msg("up@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "mock-1", id)

	_, err = sender.Send(ctx, msg("down@example.com"))
	require.Error(t, err)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"up@example.com"}, sent[0].To)
}
