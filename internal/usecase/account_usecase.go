// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"tasker/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateAccountInput carries a partial profile update. Nil fields keep their value.
type UpdateAccountInput struct {
	Username *string
	Email    *string
	Password *string
}

// --- Output DTOs ---

// LoginOutput returns the issued bearer token.
type LoginOutput struct {
	Token     string
	ExpiresIn time.Duration
	Account   *entity.Account
}

// AccountUsecase is the account directory: registration, credential checks
// and the translation from token subject to account.
type AccountUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*entity.Account, error)
	Authenticate(ctx context.Context, email, password string) (*entity.Account, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Resolve(ctx context.Context, pid uuid.UUID) (*entity.Account, error)
	Update(ctx context.Context, accountID int64, input UpdateAccountInput) (*entity.Account, error)
	Remove(ctx context.Context, accountID int64) (*entity.Account, error)
}
