// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered person. ID is the storage key and never leaves the
// service; PID is the stable public identifier carried in tokens and URLs.
type Account struct {
	ID               int64      // Sequential storage identifier.
	PID              uuid.UUID  // Stable external identifier.
	Username         string     // Unique display handle, 5 to 48 characters.
	Email            string     // Unique login identifier.
	PasswordHash     string     // Self-describing one-way digest, never plaintext.
	ResetTokenHash   *string    // SHA-256 of the live password-reset token, nil when none is outstanding.
	ResetTokenSentAt *time.Time // Issuance time of the live reset token.
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasLiveResetToken reports whether a reset token is outstanding.
func (a *Account) HasLiveResetToken() bool {
	return a.ResetTokenHash != nil && a.ResetTokenSentAt != nil
}

// ResetTokenExpired reports whether the outstanding reset token is older than ttl.
// A non-positive ttl disables expiry.
func (a *Account) ResetTokenExpired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || a.ResetTokenSentAt == nil {
		return false
	}

	return !now.Before(a.ResetTokenSentAt.Add(ttl))
}
