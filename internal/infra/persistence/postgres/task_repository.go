package postgres

import (
	"context"

	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// taskRepository implements repository.TaskRepository using GORM.
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository is the constructor for taskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

// FindByPID retrieves a task by its external identifier regardless of owner.
func (repo *taskRepository) FindByPID(ctx context.Context, pid uuid.UUID) (*entity.Task, error) {
	var taskM model.TaskModel
	if err := repo.db.WithContext(ctx).Where("pid = ?", pid).First(&taskM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.Wrap(err, "failed to find task by pid")
	}

	return toTaskDomain(&taskM), nil
}

// FindOwnedByPID scopes the lookup to the owner in the query itself.
func (repo *taskRepository) FindOwnedByPID(ctx context.Context, pid uuid.UUID, ownerID int64) (*entity.Task, error) {
	var taskM model.TaskModel
	err := repo.db.WithContext(ctx).
		Where("pid = ? AND user_id = ?", pid, ownerID).
		First(&taskM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.Wrap(err, "failed to find owned task")
	}

	return toTaskDomain(&taskM), nil
}

// ListByOwner returns every task of the owner ordered by ID.
func (repo *taskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Task, error) {
	var taskMs []model.TaskModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id").Find(&taskMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list tasks by owner")
	}

	tasks := make([]*entity.Task, 0, len(taskMs))
	for i := range taskMs {
		tasks = append(tasks, toTaskDomain(&taskMs[i]))
	}

	return tasks, nil
}

// Create persists a new task and copies the generated ID and timestamps back.
func (repo *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	taskM := fromTaskDomain(task)

	if err := repo.db.WithContext(ctx).Create(taskM).Error; err != nil {
		return mapTaskWriteError(err, "failed to create task")
	}

	task.ID = taskM.ID
	task.CreatedAt = taskM.CreatedAt
	task.UpdatedAt = taskM.UpdatedAt

	return nil
}

// Update persists title, description and completion flag. The owner column is never written.
func (repo *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	taskM := fromTaskDomain(task)

	result := repo.db.WithContext(ctx).
		Model(taskM).
		Select("title", "description", "done", "updated_at").
		Updates(taskM)
	if result.Error != nil {
		return mapTaskWriteError(result.Error, "failed to update task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	task.UpdatedAt = taskM.UpdatedAt

	return nil
}

// Delete removes a single task.
func (repo *taskRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TaskModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// DeleteByOwner removes every task of the owner.
func (repo *taskRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	result := repo.db.WithContext(ctx).Where("user_id = ?", ownerID).Delete(&model.TaskModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete tasks by owner")
	}

	return result.RowsAffected, nil
}

func mapTaskWriteError(err error, action string) error {
	if isForeignKeyConstraintViolation(err) && violatedConstraint(err) == constraintTasksUser {
		return domainerrors.ErrAccountNotFound.WrapMessage("task owner does not exist")
	}
	if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WrapMessage("task violates a column constraint")
	}

	return domainerrors.NewDatabaseExecuteError(err, action)
}

// --- Mapper Functions ---

// toTaskDomain converts a GORM TaskModel to a domain Task entity.
func toTaskDomain(data *model.TaskModel) *entity.Task {
	if data == nil {
		return nil
	}

	return &entity.Task{
		ID:          data.ID,
		PID:         data.PID,
		OwnerID:     data.UserID,
		Title:       data.Title,
		Description: data.Description,
		Done:        data.Done,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromTaskDomain converts a domain Task entity to a GORM TaskModel.
func fromTaskDomain(data *entity.Task) *model.TaskModel {
	if data == nil {
		return nil
	}

	return &model.TaskModel{
		ID:          data.ID,
		PID:         data.PID,
		UserID:      data.OwnerID,
		Title:       data.Title,
		Description: data.Description,
		Done:        data.Done,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
