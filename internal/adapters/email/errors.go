package email

import (
	"errors"
	"fmt"
)

// Common email error types
var (
	ErrNotConfigured    = errors.New("email provider not configured")
	ErrInvalidMessage   = errors.New("invalid email message")
	ErrProviderRejected = errors.New("email provider rejected the message")
)

// SendError represents a failed delivery with the recipient it was addressed to
type SendError struct {
	Op        string // Provider operation (e.g., "resend.Send")
	Recipient string
	Err       error
	Retryable bool
}

func (e *SendError) Error() string {
	if e.Recipient != "" {
		return fmt.Sprintf("email %s failed for %s: %v", e.Op, e.Recipient, e.Err)
	}
	return fmt.Sprintf("email %s failed: %v", e.Op, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// NewSendError creates a new SendError
func NewSendError(op, recipient string, err error, retryable bool) *SendError {
	return &SendError{
		Op:        op,
		Recipient: recipient,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable returns true if the error indicates a transient provider failure.
// Sends are never retried; the flag is reported in failure logs.
func IsRetryable(err error) bool {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Retryable
	}
	return false
}

// IsNotConfigured returns true if no provider credential is available
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
