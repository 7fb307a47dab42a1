// Package memory keeps accounts and tasks in process memory. It backs the
// "memory" storage driver for local development and scenario tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"tasker/internal/domain/entity"
	"tasker/internal/domain/repository"
)

// Store holds every table behind one mutex.
type Store struct {
	mu sync.Mutex

	accounts      map[int64]*entity.Account
	tasks         map[int64]*entity.Task
	nextAccountID int64
	nextTaskID    int64

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]*entity.Account),
		tasks:    make(map[int64]*entity.Task),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AccountRepo returns a repository that locks per call.
func (s *Store) AccountRepo() repository.AccountRepository {
	return &accountRepository{store: s}
}

// TaskRepo returns a repository that locks per call.
func (s *Store) TaskRepo() repository.TaskRepository {
	return &taskRepository{store: s}
}

// TransactionManager returns a manager that serialises units of work and
// restores the previous state when one fails.
func (s *Store) TransactionManager() repository.TransactionManager {
	return &transactionManager{store: s}
}

type snapshot struct {
	accounts      map[int64]*entity.Account
	tasks         map[int64]*entity.Task
	nextAccountID int64
	nextTaskID    int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		accounts:      maps.Clone(s.accounts),
		tasks:         maps.Clone(s.tasks),
		nextAccountID: s.nextAccountID,
		nextTaskID:    s.nextTaskID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.tasks = snap.tasks
	s.nextAccountID = snap.nextAccountID
	s.nextTaskID = snap.nextTaskID
}

// guard acquires the store lock unless the caller already holds it.
func (s *Store) guard(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()

	return s.mu.Unlock
}

type transactionManager struct {
	store *Store
}

type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) AccountRepo() repository.AccountRepository {
	return &accountRepository{store: f.store, inTx: true}
}

func (f *repositoryFactory) TaskRepo() repository.TaskRepository {
	return &taskRepository{store: f.store, inTx: true}
}

// Execute holds the store lock for the whole unit of work. Stored entities
// are replaced, never mutated in place, so a shallow map clone is a full snapshot.
func (tm *transactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	snap := tm.store.snapshot()
	defer func() {
		if r := recover(); r != nil {
			tm.store.restore(snap)
			panic(r)
		}
		if err != nil {
			tm.store.restore(snap)
		}
	}()

	return fn(&repositoryFactory{store: tm.store})
}

func cloneAccount(a *entity.Account) *entity.Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.ResetTokenHash != nil {
		v := *a.ResetTokenHash
		c.ResetTokenHash = &v
	}
	if a.ResetTokenSentAt != nil {
		v := *a.ResetTokenSentAt
		c.ResetTokenSentAt = &v
	}

	return &c
}

func cloneTask(t *entity.Task) *entity.Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Description != nil {
		v := *t.Description
		c.Description = &v
	}

	return &c
}
