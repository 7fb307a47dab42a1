package usecase

import (
	"context"
	"time"

	"tasker/internal/domain/entity"
)

// ResetIssued is returned once per forgot-password request. Token is the only
// copy of the raw reset token; storage keeps its digest.
type ResetIssued struct {
	Account   *entity.Account
	Token     string
	ExpiresAt time.Time
}

// RecoveryUsecase manages single-use password reset tokens.
type RecoveryUsecase interface {
	ForgotPassword(ctx context.Context, email string) (*ResetIssued, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*entity.Account, error)
}
