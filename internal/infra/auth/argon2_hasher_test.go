package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tasker/config"
	domainerrors "tasker/internal/domain/errors"
)

// cheapParams keeps hashing fast in tests.
var cheapParams = Argon2Params{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type failingReader struct{}

func (failingReader) Read(_ []byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func newTestArgon2Hasher() *argon2Hasher {
	return newArgon2Hasher(cheapParams, strings.NewReader(strings.Repeat("s", 1024)))
}

func TestArgon2Hasher_HashAndCheck(t *testing.T) {
	hasher := NewArgon2Hasher(&config.Config{Auth: &config.AuthConfig{
		Argon2: config.Argon2Config{MemoryKiB: 64, Iterations: 1, Parallelism: 1},
	}})

	password := "correct horse battery"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=64,t=1,p=1$"))

	ok, err := hasher.Check(password, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Check("correct horse battery!", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Check("", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2Hasher_SaltsEveryDigest(t *testing.T) {
	hasher := NewArgon2Hasher(&config.Config{Auth: &config.AuthConfig{
		Argon2: config.Argon2Config{MemoryKiB: 64, Iterations: 1, Parallelism: 1},
	}})

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestArgon2Hasher_HashEntropyFailure(t *testing.T) {
	hasher := newArgon2Hasher(cheapParams, failingReader{})

	hash, err := hasher.Hash("password123")
	assert.Empty(t, hash)
	assert.ErrorIs(t, err, domainerrors.ErrHashingFailure)
}

func TestArgon2Hasher_CheckMalformedDigest(t *testing.T) {
	hasher := newTestArgon2Hasher()

	malformed := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=64,t=1,p=1$c2FsdA",
		"$argon2id$v=18$m=64,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=19$garbage$c2FsdHNhbHQ$a2V5a2V5",
		"$argon2id$v=19$m=64,t=1,p=1$!!!$a2V5a2V5",
		"$argon2i$v=19$m=64,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5",
	}

	for _, digest := range malformed {
		t.Run(digest, func(t *testing.T) {
			ok, err := hasher.Check("password123", digest)
			assert.False(t, ok)
			assert.ErrorIs(t, err, domainerrors.ErrHashingFailure)
		})
	}
}

func TestArgon2Hasher_ChecksDigestWithItsOwnParameters(t *testing.T) {
	weaker := newTestArgon2Hasher()
	hash, err := weaker.Hash("password123")
	require.NoError(t, err)

	stronger := newArgon2Hasher(Argon2Params{Memory: 128, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32}, strings.NewReader(strings.Repeat("x", 64)))

	ok, err := stronger.Check("password123", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, stronger.NeedsRehash(hash))
	assert.False(t, weaker.NeedsRehash(hash))
}

func TestArgon2Hasher_VerifiesLegacyBcryptDigest(t *testing.T) {
	hasher := newTestArgon2Hasher()

	legacy, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := hasher.Check("password123", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Check("password124", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, hasher.NeedsRehash(string(legacy)))
}

func TestParamsFromConfig_KeepsDefaultsForZeroFields(t *testing.T) {
	params := paramsFromConfig(config.Argon2Config{Iterations: 5}, DefaultArgon2Params())

	assert.Equal(t, uint32(64*1024), params.Memory)
	assert.Equal(t, uint32(5), params.Iterations)
	assert.Equal(t, uint8(2), params.Parallelism)
	assert.Equal(t, uint32(32), params.KeyLength)
}
