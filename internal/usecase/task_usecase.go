package usecase

import (
	"context"

	"tasker/internal/domain/entity"
	"tasker/internal/util"

	"github.com/google/uuid"
)

// CreateTaskInput defines the data required to create a task.
type CreateTaskInput struct {
	Title       string
	Description *string
}

// UpdateTaskInput carries a partial task update. Description distinguishes
// absent (keep), null (clear) and a value (set).
type UpdateTaskInput struct {
	Title       *string
	Description util.Nullable[string]
	Done        *bool
}

// TaskUsecase scopes every task operation to the calling account.
type TaskUsecase interface {
	Create(ctx context.Context, ownerPID uuid.UUID, input CreateTaskInput) (*entity.Task, error)
	List(ctx context.Context, ownerPID uuid.UUID) ([]*entity.Task, error)
	Get(ctx context.Context, ownerPID, taskPID uuid.UUID) (*entity.Task, error)
	Update(ctx context.Context, ownerPID, taskPID uuid.UUID, input UpdateTaskInput) (*entity.Task, error)
	Delete(ctx context.Context, ownerPID, taskPID uuid.UUID) (*entity.Task, error)
}
