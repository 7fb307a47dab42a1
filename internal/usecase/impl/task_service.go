package impl

import (
	"context"
	"log/slog"

	"tasker/config"
	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskAccess distinguishes reads from mutations in the ownership check.
type taskAccess int

const (
	taskRead taskAccess = iota
	taskWrite
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	txManager            repository.TransactionManager
	accountRepo          repository.AccountRepository
	taskRepo             repository.TaskRepository
	concealForeignWrites bool
	logger               *slog.Logger
}

// TaskServiceParams holds dependencies for TaskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	TaskRepo    repository.TaskRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	conceal := false
	if params.Config != nil && params.Config.Tasks != nil {
		conceal = params.Config.Tasks.ConcealForeignWrites
	}

	return &taskService{
		txManager:            params.TxManager,
		accountRepo:          params.AccountRepo,
		taskRepo:             params.TaskRepo,
		concealForeignWrites: conceal,
		logger:               params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// authorizeTask is the ownership policy shared by every task operation.
// Foreign reads look like absent tasks; foreign writes are refused unless
// concealment is switched on.
func (srv *taskService) authorizeTask(task *entity.Task, owner *entity.Account, access taskAccess) error {
	if task.OwnedBy(owner.ID) {
		return nil
	}
	if access == taskRead || srv.concealForeignWrites {
		return domainerrors.ErrTaskNotFound
	}

	return domainerrors.ErrTaskForbidden
}

// Create inserts a task owned by the caller.
func (srv *taskService) Create(ctx context.Context, ownerPID uuid.UUID, input usecase.CreateTaskInput) (*entity.Task, error) {
	var created *entity.Task
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		owner, err := repoFactory.AccountRepo().FindByPID(ctx, ownerPID)
		if err != nil {
			return mapAccountLookupError(err)
		}

		taskRepo := repoFactory.TaskRepo()
		task := &entity.Task{
			PID:         uuid.New(),
			OwnerID:     owner.ID,
			Title:       input.Title,
			Description: input.Description,
		}
		if err := taskRepo.Create(ctx, task); err != nil {
			return errors.Wrap(err, "failed to create task")
		}

		stored, err := taskRepo.FindByPID(ctx, task.PID)
		if errors.Is(err, repository.ErrTaskNotFound) {
			return domainerrors.ErrInternal.WrapMessage("created task could not be read back")
		}
		if err != nil {
			return errors.Wrap(err, "failed to read created task")
		}
		created = stored

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}

	srv.log(ctx).Info("Task created",
		slog.String("task_pid", created.PID.String()),
		slog.String("owner_pid", ownerPID.String()),
	)

	return created, nil
}

// List returns the caller's tasks ordered by creation.
func (srv *taskService) List(ctx context.Context, ownerPID uuid.UUID) ([]*entity.Task, error) {
	owner, err := srv.accountRepo.FindByPID(ctx, ownerPID)
	if err != nil {
		return nil, mapAccountLookupError(err)
	}

	tasks, err := srv.taskRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}
	if tasks == nil {
		tasks = []*entity.Task{}
	}

	return tasks, nil
}

// Get returns one of the caller's tasks. A foreign task is reported as absent.
func (srv *taskService) Get(ctx context.Context, ownerPID, taskPID uuid.UUID) (*entity.Task, error) {
	owner, err := srv.accountRepo.FindByPID(ctx, ownerPID)
	if err != nil {
		return nil, mapAccountLookupError(err)
	}

	task, err := srv.taskRepo.FindOwnedByPID(ctx, taskPID, owner.ID)
	if err != nil {
		return nil, mapTaskLookupError(err)
	}
	if err := srv.authorizeTask(task, owner, taskRead); err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies the present fields of input to one of the caller's tasks.
func (srv *taskService) Update(ctx context.Context, ownerPID, taskPID uuid.UUID, input usecase.UpdateTaskInput) (*entity.Task, error) {
	var updated *entity.Task
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		owner, task, err := srv.resolveForWrite(ctx, repoFactory, ownerPID, taskPID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description.Present {
			task.Description = input.Description.Ptr()
		}
		if input.Done != nil {
			task.Done = *input.Done
		}

		if err := repoFactory.TaskRepo().Update(ctx, task); err != nil {
			return errors.Wrap(err, "failed to update task")
		}

		srv.log(ctx).Info("Task updated",
			slog.String("task_pid", task.PID.String()),
			slog.String("owner_pid", owner.PID.String()),
		)
		updated = task

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update task")
	}

	return updated, nil
}

// Delete removes one of the caller's tasks and returns what was removed.
func (srv *taskService) Delete(ctx context.Context, ownerPID, taskPID uuid.UUID) (*entity.Task, error) {
	var deleted *entity.Task
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		owner, task, err := srv.resolveForWrite(ctx, repoFactory, ownerPID, taskPID)
		if err != nil {
			return err
		}

		if err := repoFactory.TaskRepo().Delete(ctx, task.ID); err != nil {
			return mapTaskLookupError(err)
		}

		srv.log(ctx).Info("Task deleted",
			slog.String("task_pid", task.PID.String()),
			slog.String("title", task.Title),
			slog.String("owner_pid", owner.PID.String()),
		)
		deleted = task

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete task")
	}

	return deleted, nil
}

// resolveForWrite loads the owner and the task by id alone, then applies the
// write policy.
func (srv *taskService) resolveForWrite(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	ownerPID, taskPID uuid.UUID,
) (*entity.Account, *entity.Task, error) {
	owner, err := repoFactory.AccountRepo().FindByPID(ctx, ownerPID)
	if err != nil {
		return nil, nil, mapAccountLookupError(err)
	}

	task, err := repoFactory.TaskRepo().FindByPID(ctx, taskPID)
	if err != nil {
		return nil, nil, mapTaskLookupError(err)
	}

	if err := srv.authorizeTask(task, owner, taskWrite); err != nil {
		return nil, nil, err
	}

	return owner, task, nil
}

func mapTaskLookupError(err error) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return domainerrors.ErrTaskNotFound
	}

	return errors.Wrap(err, "failed to find task")
}
