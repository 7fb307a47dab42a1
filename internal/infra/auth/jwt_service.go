package auth

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tasker/config"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/service"
	"tasker/internal/errors"
)

const (
	// AccessTokenTTL is the fixed lifetime of every issued token.
	AccessTokenTTL = 3600 * time.Second

	minSecretBytes = 32
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte        // HMAC key for signing tokens.
	ttl    time.Duration // Time-to-live for tokens.
	logger *slog.Logger
}

// NewJWTService is the constructor for jwtService.
// It decodes the base64 secret from configuration and rejects keys shorter than 256 bits.
func NewJWTService(cfg *config.Config, logger *slog.Logger) (service.TokenService, error) {
	if cfg == nil || cfg.Auth == nil || cfg.Auth.JWTSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	secret, err := config.DecodeSecret(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, errors.Wrap(err, "decode jwt secret")
	}

	return newJWTService(secret, logger)
}

func newJWTService(secret []byte, logger *slog.Logger) (*jwtService, error) {
	if len(secret) < minSecretBytes {
		return nil, errors.Errorf("jwt secret must be at least %d bytes", minSecretBytes)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &jwtService{
		secret: secret,
		ttl:    AccessTokenTTL,
		logger: logger,
	}, nil
}

// Issue signs an HS256 token whose subject is the account's external identifier.
func (s *jwtService) Issue(subject uuid.UUID, now time.Time) (string, error) {
	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// Verify validates signature, structure and expiry against now. The cause of
// a rejection is logged at debug and never returned.
func (s *jwtService) Verify(tokenString string, now time.Time) (uuid.UUID, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		s.logger.Debug("Token rejected", slog.Any("error", err))

		return uuid.Nil, domainerrors.ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		s.logger.Debug("Token subject is not a valid identifier", slog.Any("error", err))

		return uuid.Nil, domainerrors.ErrInvalidToken
	}

	return subject, nil
}

// TTL returns the fixed token lifetime.
func (s *jwtService) TTL() time.Duration {
	return s.ttl
}
