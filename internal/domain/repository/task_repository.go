package repository

import (
	"context"

	"tasker/internal/domain/entity"
	"tasker/internal/errors"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when no task matches the lookup.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	// FindByPID retrieves a task by its external identifier, regardless of owner.
	FindByPID(ctx context.Context, pid uuid.UUID) (*entity.Task, error)

	// FindOwnedByPID retrieves a task only when it belongs to ownerID.
	FindOwnedByPID(ctx context.Context, pid uuid.UUID, ownerID int64) (*entity.Task, error)

	// ListByOwner returns the owner's tasks ordered by ID.
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Task, error)

	// Create inserts the task and fills its ID and timestamps.
	Create(ctx context.Context, task *entity.Task) error

	// Update persists title, description and done, refreshing UpdatedAt.
	Update(ctx context.Context, task *entity.Task) error

	// Delete removes a single task.
	Delete(ctx context.Context, id int64) error

	// DeleteByOwner removes every task of the owner and reports how many went.
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}
