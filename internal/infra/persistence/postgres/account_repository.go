// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its storage identifier.
func (repo *accountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	return repo.findOne(ctx, repo.db, "failed to find account by id", "id = ?", id)
}

// FindByPID retrieves a single account by its external identifier.
func (repo *accountRepository) FindByPID(ctx context.Context, pid uuid.UUID) (*entity.Account, error) {
	return repo.findOne(ctx, repo.db, "failed to find account by pid", "pid = ?", pid)
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return repo.findOne(ctx, repo.db, "failed to find account by email", "email = ?", email)
}

// FindByUsername retrieves a single account by its username.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return repo.findOne(ctx, repo.db, "failed to find account by username", "username = ?", username)
}

// FindByResetTokenHash retrieves the account holding the reset-token digest.
// The lookup is pinned to the primary so a token issued moments ago is
// visible even while replicas lag.
func (repo *accountRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.Account, error) {
	return repo.findOne(ctx, repo.db.Clauses(dbresolver.Write), "failed to find account by reset token", "reset_token_hash = ?", tokenHash)
}

func (repo *accountRepository) findOne(ctx context.Context, db *gorm.DB, action string, query string, args ...any) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := db.WithContext(ctx).Where(query, args...).First(&accountM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, action)
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toAccountDomain(&accountM), nil
}

// Create persists a new account and copies the generated ID and timestamps back.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		return mapAccountWriteError(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update persists username, email and password hash.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	result := repo.db.WithContext(ctx).
		Model(accountM).
		Select("username", "email", "password", "updated_at").
		Updates(accountM)
	if result.Error != nil {
		return mapAccountWriteError(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// SetResetToken stores the reset-token digest, replacing any previous one.
func (repo *accountRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, sentAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{ID: id}).
		Updates(map[string]any{
			"reset_token_hash":    tokenHash,
			"reset_token_sent_at": sentAt,
		})
	if result.Error != nil {
		return mapAccountWriteError(result.Error, "failed to store reset token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// ReplacePasswordHash swaps the password hash while the stored digest is
// still previousHash, so a concurrent reset or profile change wins.
func (repo *accountRepository) ReplacePasswordHash(ctx context.Context, id int64, previousHash, newHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ? AND password = ?", id, previousHash).
		Updates(map[string]any{
			"password": newHash,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to replace password hash")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPasswordHashChanged
	}

	return nil
}

// ClearResetToken drops the reset token while it is still tokenHash, so a
// token issued after the caller's lookup survives.
func (repo *accountRepository) ClearResetToken(ctx context.Context, id int64, tokenHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ? AND reset_token_hash = ?", id, tokenHash).
		Updates(map[string]any{
			"reset_token_hash":    nil,
			"reset_token_sent_at": nil,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to clear reset token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrResetTokenConsumed
	}

	return nil
}

// ConsumeResetToken swaps the password hash and clears the token in one
// conditional statement, so only one of two concurrent consumers succeeds.
func (repo *accountRepository) ConsumeResetToken(ctx context.Context, id int64, tokenHash, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ? AND reset_token_hash = ?", id, tokenHash).
		Updates(map[string]any{
			"password":            passwordHash,
			"reset_token_hash":    nil,
			"reset_token_sent_at": nil,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to consume reset token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrResetTokenConsumed
	}

	return nil
}

// Delete removes the account. Owned tasks go with it through the foreign key.
func (repo *accountRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccountModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// mapAccountWriteError converts PostgreSQL errors to domain errors.
func mapAccountWriteError(err error, action string) error {
	if isUniqueConstraintViolation(err) {
		switch violatedConstraint(err) {
		case constraintUsersEmail:
			return domainerrors.ErrEmailTaken.WrapMessage("email already exists")
		case constraintUsersUsername:
			return domainerrors.ErrUsernameTaken.WrapMessage("username already exists")
		case constraintUsersResetTokenHash:
			return domainerrors.ErrInternal.WrapMessage("reset token collision")
		}
	}
	if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WrapMessage("account violates a column constraint")
	}

	// For other database errors, return a generic database error
	return domainerrors.NewDatabaseExecuteError(err, action)
}

// --- Mapper Functions ---

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:               data.ID,
		PID:              data.PID,
		Username:         data.Username,
		Email:            data.Email,
		PasswordHash:     data.Password,
		ResetTokenHash:   data.ResetTokenHash,
		ResetTokenSentAt: data.ResetTokenSentAt,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:               data.ID,
		PID:              data.PID,
		Username:         data.Username,
		Email:            data.Email,
		Password:         data.PasswordHash,
		ResetTokenHash:   data.ResetTokenHash,
		ResetTokenSentAt: data.ResetTokenSentAt,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
