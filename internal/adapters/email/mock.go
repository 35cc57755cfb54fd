package email

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"provisioning-functions/internal/models"
)

// MockSender records messages in memory. Recipients listed in FailFor are rejected.
type MockSender struct {
	mu      sync.Mutex
	sent    []models.EmailMessage
	failFor map[string]error
}

// NewMockSender creates a new MockSender
func NewMockSender() *MockSender {
	return &MockSender{failFor: make(map[string]error)}
}

// FailFor makes every send to recipient fail with err. A *SendError is
// returned unchanged so callers can control its classification.
func (m *MockSender) FailFor(recipient string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = errors.New("mock delivery failure")
	}
	m.failFor[recipient] = err
}

// Provider implements Sender.Provider
func (m *MockSender) Provider() string {
	return "mock"
}

// Send implements Sender.Send
func (m *MockSender) Send(ctx context.Context, msg models.EmailMessage) (string, error) {
	if err := validateMessage("mock.Send", msg); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", NewSendError("mock.Send", msg.To[0], err, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, to := range msg.To {
		if err, ok := m.failFor[to]; ok {
			var sendErr *SendError
			if errors.As(err, &sendErr) {
				return "", err
			}
			return "", NewSendError("mock.Send", to, err, false)
		}
	}

	m.sent = append(m.sent, msg)
	return fmt.Sprintf("mock-%d", len(m.sent)), nil
}

// Sent returns a copy of the delivered messages
func (m *MockSender) Sent() []models.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.EmailMessage(nil), m.sent...)
}
