// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"tasker/internal/domain/entity"
	"tasker/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrResetTokenConsumed is returned when a conditional reset-token update
	// matched no row because another request consumed the token first.
	ErrResetTokenConsumed = errors.New("reset token already consumed")

	// ErrPasswordHashChanged is returned when a conditional password-hash
	// update matched no row because the stored digest changed meanwhile.
	ErrPasswordHashChanged = errors.New("password hash changed")
)

// AccountRepository defines the standard operations for account persistence.
type AccountRepository interface {
	// FindByID retrieves an account by its storage identifier.
	FindByID(ctx context.Context, id int64) (*entity.Account, error)

	// FindByPID retrieves an account by its external identifier.
	FindByPID(ctx context.Context, pid uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves an account by exact email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByUsername retrieves an account by exact username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// FindByResetTokenHash retrieves the account holding the given reset-token digest.
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.Account, error)

	// Create inserts the account and fills its ID and timestamps.
	Create(ctx context.Context, account *entity.Account) error

	// Update persists username, email and password hash, refreshing UpdatedAt.
	Update(ctx context.Context, account *entity.Account) error

	// SetResetToken stores a reset-token digest and its issuance time,
	// replacing any previous token.
	SetResetToken(ctx context.Context, id int64, tokenHash string, sentAt time.Time) error

	// ReplacePasswordHash swaps the password hash only while the stored
	// digest still equals previousHash.
	// Returns ErrPasswordHashChanged when no row matched.
	ReplacePasswordHash(ctx context.Context, id int64, previousHash, newHash string) error

	// ClearResetToken drops the reset token only while the stored digest
	// still equals tokenHash.
	// Returns ErrResetTokenConsumed when no row matched.
	ClearResetToken(ctx context.Context, id int64, tokenHash string) error

	// ConsumeResetToken replaces the password hash and clears the reset token,
	// but only while the stored digest still equals tokenHash.
	// Returns ErrResetTokenConsumed when no row matched.
	ConsumeResetToken(ctx context.Context, id int64, tokenHash, passwordHash string) error

	// Delete removes the account.
	Delete(ctx context.Context, id int64) error
}
