package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/service"
)

const defaultBcryptCost = bcrypt.DefaultCost

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// bcryptHasher verifies digests imported from bcrypt-based systems.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasherWithCost returns a bcrypt PasswordHasher with the given cost.
// Out-of-range costs fall back to bcrypt.DefaultCost.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return newBcryptHasher(cost)
}

func newBcryptHasher(cost int) *bcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrHashingFailure.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, domainerrors.ErrHashingFailure.WrapMessage(err.Error())
	}
}

// NeedsRehash reports digests weaker than the configured cost.
func (h *bcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}

	return cost < h.cost
}

func isBcryptDigest(hash string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(hash, prefix) {
			return true
		}
	}

	return false
}
