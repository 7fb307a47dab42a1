// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm, keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted, self-describing digest from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a digest. A mismatch is
	// (false, nil); a digest that cannot be parsed is an error.
	Check(password, hash string) (bool, error)

	// NeedsRehash reports whether the digest was produced by an older
	// algorithm or weaker parameters than the hasher currently uses.
	NeedsRehash(hash string) bool
}
