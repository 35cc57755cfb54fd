package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provisioning-functions/internal/models"
)

func newTestResendSender(t *testing.T, handler http.HandlerFunc) *ResendSender {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sender, err := NewResendSender("re_test_key")
	require.NoError(t, err)
	sender, err = sender.WithBaseURL(server.URL + "/")
	require.NoError(t, err)
	return sender
}

func TestNewResendSender_MissingKey(t *testing.T) {
	_, err := NewResendSender("")
	assert.True(t, IsNotConfigured(err))
}

func TestResendSender_Send(t *testing.T) {
	var got map[string]interface{}
	var auth string

	sender := newTestResendSender(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-123"}`))
	})

	id, err := sender.Send(context.Background(), models.EmailMessage{
		From:    "Backup System <onboarding@resend.dev>",
		To:      []string{"ops@example.com"},
		Subject: "subject",
		HTML:    "<p>body</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "email-123", id)
	assert.Equal(t, "Bearer re_test_key", auth)
	assert.Equal(t, "subject", got["subject"])
	assert.Equal(t, "<p>body</p>", got["html"])
	assert.Equal(t, []interface{}{"ops@example.com"}, got["to"])
}

func TestResendSender_SendProviderError(t *testing.T) {
	sender := newTestResendSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	})

	_, err := sender.Send(context.Background(), models.EmailMessage{
		From:    "from@example.com",
		To:      []string{"bad@example.com"},
		Subject: "subject",
	})

	require.Error(t, err)
	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, "bad@example.com", sendErr.Recipient)
	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestResendSender_SendInvalidMessage(t *testing.T) {
	called := false
	sender := newTestResendSender(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := sender.Send(context.Background(), models.EmailMessage{From: "a@example.com", Subject: "s"})

	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.False(t, called)
}
