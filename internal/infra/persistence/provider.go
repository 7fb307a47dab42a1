// Package persistence selects the repository implementation named by storage.driver.
package persistence

import (
	"log/slog"

	"tasker/config"
	"tasker/internal/domain/repository"
	"tasker/internal/errors"
	"tasker/internal/infra/persistence/memory"
	"tasker/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Result exposes the repositories and the transaction manager to the container.
type Result struct {
	fx.Out

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	TaskRepo    repository.TaskRepository
}

// New builds the repositories for the configured storage driver.
func New(params Params) (Result, error) {
	driver := config.StorageDriverPostgres
	if params.Config.Storage != nil && params.Config.Storage.Driver != "" {
		driver = params.Config.Storage.Driver
	}

	switch driver {
	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()

		return Result{
			TxManager:   store.TransactionManager(),
			AccountRepo: store.AccountRepo(),
			TaskRepo:    store.TaskRepo(),
		}, nil
	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Result{}, err
		}

		return Result{
			TxManager:   postgres.NewTransactionManager(db),
			AccountRepo: postgres.NewAccountRepository(db),
			TaskRepo:    postgres.NewTaskRepository(db),
		}, nil
	default:
		return Result{}, errors.Errorf("unknown storage driver %q", driver)
	}
}
