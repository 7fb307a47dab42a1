package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/service"
)

const resetTokenBytes = 32

// resetTokenGenerator issues 256-bit base64url tokens and stores only their SHA-256.
type resetTokenGenerator struct {
	rand io.Reader
}

// NewResetTokenGenerator returns a generator backed by crypto/rand.
func NewResetTokenGenerator() service.ResetTokenGenerator {
	return &resetTokenGenerator{rand: rand.Reader}
}

func (g *resetTokenGenerator) Generate() (string, string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", "", domainerrors.ErrInternal.WrapMessage("failed to generate reset token: " + err.Error())
	}

	token := base64.RawURLEncoding.EncodeToString(buf)

	return token, g.Digest(token), nil
}

func (g *resetTokenGenerator) Digest(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}
