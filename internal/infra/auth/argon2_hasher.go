// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"

	"tasker/config"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/service"
)

const argon2idPrefix = "$argon2id$"

// Argon2Params holds the Argon2id cost parameters embedded in every digest.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the parameters used when none are configured.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// argon2Hasher is the PasswordHasher used for all new digests. Digests with a
// bcrypt prefix are still verified through the legacy hasher.
type argon2Hasher struct {
	params Argon2Params
	rand   io.Reader
	legacy *bcryptHasher
}

// NewArgon2Hasher builds the hasher from auth.argon2; zero fields fall back to defaults.
func NewArgon2Hasher(cfg *config.Config) service.PasswordHasher {
	params := DefaultArgon2Params()
	if cfg != nil && cfg.Auth != nil {
		params = paramsFromConfig(cfg.Auth.Argon2, params)
	}

	return newArgon2Hasher(params, rand.Reader)
}

func newArgon2Hasher(params Argon2Params, random io.Reader) *argon2Hasher {
	return &argon2Hasher{
		params: params,
		rand:   random,
		legacy: newBcryptHasher(defaultBcryptCost),
	}
}

func paramsFromConfig(c config.Argon2Config, p Argon2Params) Argon2Params {
	if c.MemoryKiB > 0 {
		p.Memory = c.MemoryKiB
	}
	if c.Iterations > 0 {
		p.Iterations = c.Iterations
	}
	if c.Parallelism > 0 {
		p.Parallelism = c.Parallelism
	}
	if c.SaltLength > 0 {
		p.SaltLength = c.SaltLength
	}
	if c.KeyLength > 0 {
		p.KeyLength = c.KeyLength
	}

	return p
}

// Hash derives an Argon2id key under a fresh random salt and encodes it as
// $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<key>.
func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", domainerrors.ErrHashingFailure.WrapMessage("failed to read salt: " + err.Error())
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Check recomputes the key with the digest's own parameters and compares in constant time.
func (h *argon2Hasher) Check(password, hash string) (bool, error) {
	if isBcryptDigest(hash) {
		return h.legacy.Check(password, hash)
	}

	params, salt, key, err := decodeArgon2Digest(hash)
	if err != nil {
		return false, domainerrors.ErrHashingFailure.WrapMessage(err.Error())
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// NeedsRehash reports bcrypt digests and Argon2id digests made with other parameters.
func (h *argon2Hasher) NeedsRehash(hash string) bool {
	if isBcryptDigest(hash) {
		return true
	}

	params, _, _, err := decodeArgon2Digest(hash)
	if err != nil {
		return true
	}

	return params.Memory != h.params.Memory ||
		params.Iterations != h.params.Iterations ||
		params.Parallelism != h.params.Parallelism ||
		params.KeyLength != h.params.KeyLength
}

func decodeArgon2Digest(hash string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	if !strings.HasPrefix(hash, argon2idPrefix) {
		return params, nil, nil, fmt.Errorf("unsupported digest format")
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return params, nil, nil, fmt.Errorf("malformed argon2id digest")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("malformed argon2id version: %w", err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("malformed argon2id parameters: %w", err)
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return params, nil, nil, fmt.Errorf("argon2id parameters must be positive")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, fmt.Errorf("malformed argon2id salt")
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, fmt.Errorf("malformed argon2id key")
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}
