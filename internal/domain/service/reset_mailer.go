package service

import (
	"context"

	"tasker/internal/errors"
)

// ErrMailRejected marks a permanent delivery failure. Retrying the same
// message cannot succeed.
var ErrMailRejected = errors.New("mail rejected")

// ResetMailer delivers a password reset token to the account's email address.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, event *PasswordResetEvent) error
}
