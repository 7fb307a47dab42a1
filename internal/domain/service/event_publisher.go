package service

import (
	"context"
	"time"
)

// PasswordResetEvent hands a freshly issued reset token to the external
// delivery transport.
type PasswordResetEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	ResetToken string    `json:"reset_token"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at,omitzero"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishPasswordReset publishes a password reset request for delivery.
	PublishPasswordReset(ctx context.Context, event *PasswordResetEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
