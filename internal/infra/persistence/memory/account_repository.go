package memory

import (
	"context"
	"time"

	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"

	"github.com/google/uuid"
)

type accountRepository struct {
	store *Store
	inTx  bool
}

func (r *accountRepository) FindByID(_ context.Context, id int64) (*entity.Account, error) {
	defer r.store.guard(r.inTx)()

	account, ok := r.store.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

func (r *accountRepository) FindByPID(_ context.Context, pid uuid.UUID) (*entity.Account, error) {
	return r.findFirst(func(a *entity.Account) bool { return a.PID == pid })
}

func (r *accountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.findFirst(func(a *entity.Account) bool { return a.Email == email })
}

func (r *accountRepository) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	return r.findFirst(func(a *entity.Account) bool { return a.Username == username })
}

func (r *accountRepository) FindByResetTokenHash(_ context.Context, tokenHash string) (*entity.Account, error) {
	return r.findFirst(func(a *entity.Account) bool {
		return a.ResetTokenHash != nil && *a.ResetTokenHash == tokenHash
	})
}

func (r *accountRepository) findFirst(match func(*entity.Account) bool) (*entity.Account, error) {
	defer r.store.guard(r.inTx)()

	for _, account := range r.store.accounts {
		if match(account) {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *accountRepository) Create(_ context.Context, account *entity.Account) error {
	defer r.store.guard(r.inTx)()

	if err := r.checkUnique(account, 0); err != nil {
		return err
	}

	r.store.nextAccountID++
	now := r.store.now()
	account.ID = r.store.nextAccountID
	account.CreatedAt = now
	account.UpdatedAt = now
	r.store.accounts[account.ID] = cloneAccount(account)

	return nil
}

func (r *accountRepository) Update(_ context.Context, account *entity.Account) error {
	defer r.store.guard(r.inTx)()

	current, ok := r.store.accounts[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	if err := r.checkUnique(account, account.ID); err != nil {
		return err
	}

	updated := cloneAccount(current)
	updated.Username = account.Username
	updated.Email = account.Email
	updated.PasswordHash = account.PasswordHash
	updated.UpdatedAt = r.store.now()
	r.store.accounts[account.ID] = updated
	account.UpdatedAt = updated.UpdatedAt

	return nil
}

func (r *accountRepository) SetResetToken(_ context.Context, id int64, tokenHash string, sentAt time.Time) error {
	defer r.store.guard(r.inTx)()

	current, ok := r.store.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	for otherID, other := range r.store.accounts {
		if otherID != id && other.ResetTokenHash != nil && *other.ResetTokenHash == tokenHash {
			return domainerrors.ErrInternal.WrapMessage("reset token collision")
		}
	}

	updated := cloneAccount(current)
	updated.ResetTokenHash = &tokenHash
	updated.ResetTokenSentAt = &sentAt
	updated.UpdatedAt = r.store.now()
	r.store.accounts[id] = updated

	return nil
}

func (r *accountRepository) ReplacePasswordHash(_ context.Context, id int64, previousHash, newHash string) error {
	defer r.store.guard(r.inTx)()

	current, ok := r.store.accounts[id]
	if !ok || current.PasswordHash != previousHash {
		return repository.ErrPasswordHashChanged
	}

	updated := cloneAccount(current)
	updated.PasswordHash = newHash
	updated.UpdatedAt = r.store.now()
	r.store.accounts[id] = updated

	return nil
}

func (r *accountRepository) ClearResetToken(_ context.Context, id int64, tokenHash string) error {
	defer r.store.guard(r.inTx)()

	current, ok := r.store.accounts[id]
	if !ok || current.ResetTokenHash == nil || *current.ResetTokenHash != tokenHash {
		return repository.ErrResetTokenConsumed
	}

	updated := cloneAccount(current)
	updated.ResetTokenHash = nil
	updated.ResetTokenSentAt = nil
	updated.UpdatedAt = r.store.now()
	r.store.accounts[id] = updated

	return nil
}

func (r *accountRepository) ConsumeResetToken(_ context.Context, id int64, tokenHash, passwordHash string) error {
	defer r.store.guard(r.inTx)()

	current, ok := r.store.accounts[id]
	if !ok || current.ResetTokenHash == nil || *current.ResetTokenHash != tokenHash {
		return repository.ErrResetTokenConsumed
	}

	updated := cloneAccount(current)
	updated.PasswordHash = passwordHash
	updated.ResetTokenHash = nil
	updated.ResetTokenSentAt = nil
	updated.UpdatedAt = r.store.now()
	r.store.accounts[id] = updated

	return nil
}

// Delete removes the account and, like the foreign key, its tasks.
func (r *accountRepository) Delete(_ context.Context, id int64) error {
	defer r.store.guard(r.inTx)()

	if _, ok := r.store.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}

	delete(r.store.accounts, id)
	for taskID, task := range r.store.tasks {
		if task.OwnerID == id {
			delete(r.store.tasks, taskID)
		}
	}

	return nil
}

// checkUnique mirrors the users_email_key and users_username_key constraints.
func (r *accountRepository) checkUnique(account *entity.Account, selfID int64) error {
	for id, other := range r.store.accounts {
		if id == selfID {
			continue
		}
		if other.Email == account.Email {
			return domainerrors.ErrEmailTaken.WrapMessage("email already exists")
		}
		if other.Username == account.Username {
			return domainerrors.ErrUsernameTaken.WrapMessage("username already exists")
		}
	}

	return nil
}
