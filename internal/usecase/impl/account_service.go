// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/domain/service"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyPassword is hashed once and checked against when a login names an
// unknown email, so both failure paths pay for one verification.
const dummyPassword = "tasker-dummy-password"

// Username bounds, counted after trimming.
const (
	usernameMinLength = 5
	usernameMaxLength = 48
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	clock        service.Clock
	dummyHash    func() (string, error)
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Clock        service.Clock
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	hasher := params.Hasher

	return &accountService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		hasher:       hasher,
		tokenService: params.TokenService,
		clock:        params.Clock,
		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(dummyPassword)
		}),
		logger: params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account after checking email and then username uniqueness.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.Account, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if err := checkUsernameLength(username); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Starting registration", slog.String("username", username))

	var registered *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if err := ensureEmailAvailable(ctx, accountRepo, email, 0); err != nil {
			return err
		}
		if err := ensureUsernameAvailable(ctx, accountRepo, username, 0); err != nil {
			return err
		}

		digest, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password")
		}

		account := &entity.Account{
			PID:          uuid.New(),
			Username:     username,
			Email:        email,
			PasswordHash: digest,
		}
		if err := accountRepo.Create(ctx, account); err != nil {
			return errors.Wrap(err, "failed to create account")
		}
		registered = account

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "registration failed")
	}

	srv.log(ctx).Info("Account registered", slog.String("account_pid", registered.PID.String()))

	return registered, nil
}

// Authenticate checks an email and password pair. Unknown email and wrong
// password produce the same error.
func (srv *accountService) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.burnVerification(ctx, password)
		srv.log(ctx).Info("Login rejected", slog.String("reason", "unknown email"))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account by email")
	}

	ok, err := srv.hasher.Check(password, account.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !ok {
		srv.log(ctx).Info("Login rejected", slog.String("reason", "password mismatch"))

		return nil, domainerrors.ErrInvalidCredentials
	}

	return account, nil
}

// burnVerification runs one verification against a throwaway digest.
func (srv *accountService) burnVerification(ctx context.Context, password string) {
	digest, err := srv.dummyHash()
	if err != nil {
		srv.log(ctx).Warn("Failed to prepare dummy digest", slog.Any("error", err))
		return
	}
	_, _ = srv.hasher.Check(password, digest)
}

// Login authenticates and issues an access token.
func (srv *accountService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	account, err := srv.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	srv.upgradeDigest(ctx, account, input.Password)

	token, err := srv.tokenService.Issue(account.PID, srv.clock.Now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	srv.log(ctx).Info("Login succeeded", slog.String("account_pid", account.PID.String()))

	return &usecase.LoginOutput{
		Token:     token,
		ExpiresIn: srv.tokenService.TTL(),
		Account:   account,
	}, nil
}

// upgradeDigest re-hashes a password whose stored digest is outdated. Failure
// only costs the upgrade; the login itself stands.
func (srv *accountService) upgradeDigest(ctx context.Context, account *entity.Account, password string) {
	if !srv.hasher.NeedsRehash(account.PasswordHash) {
		return
	}

	digest, err := srv.hasher.Hash(password)
	if err != nil {
		srv.log(ctx).Warn("Failed to rehash password", slog.Any("error", err))
		return
	}

	err = srv.accountRepo.ReplacePasswordHash(ctx, account.ID, account.PasswordHash, digest)
	if errors.Is(err, repository.ErrPasswordHashChanged) {
		srv.log(ctx).Info("Skipped password digest upgrade, password changed concurrently",
			slog.String("account_pid", account.PID.String()),
		)

		return
	}
	if err != nil {
		srv.log(ctx).Warn("Failed to store upgraded password digest", slog.Any("error", err))

		return
	}
	account.PasswordHash = digest

	srv.log(ctx).Info("Password digest upgraded", slog.String("account_pid", account.PID.String()))
}

// Resolve translates a token subject into its account.
func (srv *accountService) Resolve(ctx context.Context, pid uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByPID(ctx, pid)
	if err != nil {
		return nil, mapAccountLookupError(err)
	}

	return account, nil
}

// Update applies a partial profile change.
func (srv *accountService) Update(ctx context.Context, accountID int64, input usecase.UpdateAccountInput) (*entity.Account, error) {
	srv.log(ctx).Info("Updating account", slog.Int64("account_id", accountID))

	var updated *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, accountID)
		if err != nil {
			return mapAccountLookupError(err)
		}

		if input.Email != nil {
			email := strings.TrimSpace(*input.Email)
			if email != account.Email {
				if err := ensureEmailAvailable(ctx, accountRepo, email, account.ID); err != nil {
					return err
				}
				account.Email = email
			}
		}

		if input.Username != nil {
			username := strings.TrimSpace(*input.Username)
			if err := checkUsernameLength(username); err != nil {
				return err
			}
			if username != account.Username {
				if err := ensureUsernameAvailable(ctx, accountRepo, username, account.ID); err != nil {
					return err
				}
				account.Username = username
			}
		}

		if input.Password != nil {
			digest, err := srv.hasher.Hash(*input.Password)
			if err != nil {
				return errors.Wrap(err, "failed to hash password")
			}
			account.PasswordHash = digest
		}

		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update account")
		}
		updated = account

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update account")
	}

	return updated, nil
}

// Remove deletes the account and every task it owns.
func (srv *accountService) Remove(ctx context.Context, accountID int64) (*entity.Account, error) {
	var removed *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, accountID)
		if err != nil {
			return mapAccountLookupError(err)
		}

		deleted, err := repoFactory.TaskRepo().DeleteByOwner(ctx, account.ID)
		if err != nil {
			return errors.Wrap(err, "failed to delete owned tasks")
		}

		if err := accountRepo.Delete(ctx, account.ID); err != nil {
			return mapAccountLookupError(err)
		}

		srv.log(ctx).Info("Account removed",
			slog.String("account_pid", account.PID.String()),
			slog.Int64("tasks_deleted", deleted),
		)
		removed = account

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to remove account")
	}

	return removed, nil
}

func ensureEmailAvailable(ctx context.Context, repo repository.AccountRepository, email string, selfID int64) error {
	existing, err := repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return nil
	case err != nil:
		return errors.Wrap(err, "failed to check email")
	case existing.ID != selfID:
		return domainerrors.ErrEmailTaken
	}

	return nil
}

func ensureUsernameAvailable(ctx context.Context, repo repository.AccountRepository, username string, selfID int64) error {
	existing, err := repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return nil
	case err != nil:
		return errors.Wrap(err, "failed to check username")
	case existing.ID != selfID:
		return domainerrors.ErrUsernameTaken
	}

	return nil
}

func mapAccountLookupError(err error) error {
	if errors.Is(err, repository.ErrAccountNotFound) {
		return domainerrors.ErrAccountNotFound
	}

	return errors.Wrap(err, "failed to find account")
}

// checkUsernameLength enforces the username bounds on the trimmed value.
func checkUsernameLength(username string) error {
	n := utf8.RuneCountInString(username)
	if n < usernameMinLength || n > usernameMaxLength {
		return domainerrors.ErrValidationFailed.WithDetails("username: must be 5 to 48 characters after trimming")
	}

	return nil
}
