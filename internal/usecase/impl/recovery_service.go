package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tasker/config"
	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/domain/service"
	"tasker/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// recoveryService implements the RecoveryUsecase interface.
type recoveryService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	tokens      service.ResetTokenGenerator
	publisher   service.EventPublisher
	clock       service.Clock
	ttl         time.Duration
	logger      *slog.Logger
}

// RecoveryServiceParams holds dependencies for RecoveryService, injected by Fx.
type RecoveryServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Tokens      service.ResetTokenGenerator
	Publisher   service.EventPublisher
	Clock       service.Clock
	Config      *config.Config
	Logger      *slog.Logger
}

// NewRecoveryService is the constructor for recoveryService.
func NewRecoveryService(params RecoveryServiceParams) usecase.RecoveryUsecase {
	var ttl time.Duration
	if params.Config != nil && params.Config.Auth != nil {
		ttl = params.Config.Auth.ResetTokenTTL
	}

	return &recoveryService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		tokens:      params.Tokens,
		publisher:   params.Publisher,
		clock:       params.Clock,
		ttl:         ttl,
		logger:      params.Logger,
	}
}

func (srv *recoveryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ForgotPassword issues a fresh reset token for the account, replacing any
// outstanding one, and hands it to the event publisher.
func (srv *recoveryService) ForgotPassword(ctx context.Context, email string) (*usecase.ResetIssued, error) {
	email = strings.TrimSpace(email)

	token, digest, err := srv.tokens.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate reset token")
	}

	now := srv.clock.Now()

	var account *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		found, err := accountRepo.FindByEmail(ctx, email)
		if err != nil {
			return mapAccountLookupError(err)
		}

		if err := accountRepo.SetResetToken(ctx, found.ID, digest, now); err != nil {
			return errors.Wrap(err, "failed to store reset token")
		}
		found.ResetTokenHash = &digest
		found.ResetTokenSentAt = &now
		account = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "forgot password failed")
	}

	issued := &usecase.ResetIssued{
		Account: account,
		Token:   token,
	}
	if srv.ttl > 0 {
		issued.ExpiresAt = now.Add(srv.ttl)
	}

	event := &service.PasswordResetEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		AccountID:  account.PID.String(),
		Email:      account.Email,
		Username:   account.Username,
		ResetToken: token,
		IssuedAt:   now,
		ExpiresAt:  issued.ExpiresAt,
	}
	if err := srv.publisher.PublishPasswordReset(ctx, event); err != nil {
		// The token is stored; a retry of forgot-password replaces it.
		srv.log(ctx).Error("Failed to publish password reset event",
			slog.String("account_pid", account.PID.String()),
			slog.Any("error", err),
		)
	}

	srv.log(ctx).Info("Reset token issued", slog.String("account_pid", account.PID.String()))

	return issued, nil
}

// ResetPassword consumes a reset token and replaces the account's password.
// A token can be consumed once; expired tokens are cleared on sight.
func (srv *recoveryService) ResetPassword(ctx context.Context, token, newPassword string) (*entity.Account, error) {
	digest := srv.tokens.Digest(token)

	account, err := srv.accountRepo.FindByResetTokenHash(ctx, digest)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.ErrResetTokenNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account by reset token")
	}

	if account.ResetTokenExpired(srv.clock.Now(), srv.ttl) {
		err := srv.accountRepo.ClearResetToken(ctx, account.ID, digest)
		if err != nil && !errors.Is(err, repository.ErrResetTokenConsumed) {
			srv.log(ctx).Warn("Failed to clear expired reset token", slog.Any("error", err))
		}
		srv.log(ctx).Info("Reset token expired", slog.String("account_pid", account.PID.String()))

		return nil, domainerrors.ErrResetTokenNotFound
	}

	passwordHash, err := srv.hasher.Hash(newPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		err := repoFactory.AccountRepo().ConsumeResetToken(ctx, account.ID, digest, passwordHash)
		if errors.Is(err, repository.ErrResetTokenConsumed) {
			return domainerrors.ErrResetTokenNotFound
		}

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to reset password")
	}

	account.PasswordHash = passwordHash
	account.ResetTokenHash = nil
	account.ResetTokenSentAt = nil

	srv.log(ctx).Info("Password reset", slog.String("account_pid", account.PID.String()))

	return account, nil
}
