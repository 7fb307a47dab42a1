package service

// ResetTokenGenerator produces single-use password-reset tokens.
type ResetTokenGenerator interface {
	// Generate returns a fresh random token and the digest that is stored in its place.
	Generate() (token, digest string, err error)

	// Digest computes the stored form of a presented token.
	Digest(token string) string
}
