package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the claims carried by access tokens. The subject is the
// account's external identifier.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless bearer tokens.
type TokenService interface {
	// Issue signs a token for subject that expires TTL after now.
	Issue(subject uuid.UUID, now time.Time) (string, error)

	// Verify returns the subject of a valid token. Every rejection cause
	// yields the same error.
	Verify(token string, now time.Time) (uuid.UUID, error)

	// TTL returns the fixed token lifetime.
	TTL() time.Duration
}
