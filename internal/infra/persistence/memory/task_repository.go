package memory

import (
	"cmp"
	"context"
	"slices"

	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"

	"github.com/google/uuid"
)

type taskRepository struct {
	store *Store
	inTx  bool
}

func (r *taskRepository) FindByPID(_ context.Context, pid uuid.UUID) (*entity.Task, error) {
	defer r.store.guard(r.inTx)()

	for _, task := range r.store.tasks {
		if task.PID == pid {
			return cloneTask(task), nil
		}
	}

	return nil, repository.ErrTaskNotFound
}

func (r *taskRepository) FindOwnedByPID(_ context.Context, pid uuid.UUID, ownerID int64) (*entity.Task, error) {
	defer r.store.guard(r.inTx)()

	for _, task := range r.store.tasks {
		if task.PID == pid && task.OwnerID == ownerID {
			return cloneTask(task), nil
		}
	}

	return nil, repository.ErrTaskNotFound
}

func (r *taskRepository) ListByOwner(_ context.Context, ownerID int64) ([]*entity.Task, error) {
	defer r.store.guard(r.inTx)()

	tasks := make([]*entity.Task, 0)
	for _, task := range r.store.tasks {
		if task.OwnerID == ownerID {
			tasks = append(tasks, cloneTask(task))
		}
	}
	slices.SortFunc(tasks, func(a, b *entity.Task) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return tasks, nil
}

func (r *taskRepository) Create(_ context.Context, task *entity.Task) error {
	defer r.store.guard(r.inTx)()

	if _, ok := r.store.accounts[task.OwnerID]; !ok {
		return domainerrors.ErrAccountNotFound.WrapMessage("task owner does not exist")
	}

	r.store.nextTaskID++
	now := r.store.now()
	task.ID = r.store.nextTaskID
	task.CreatedAt = now
	task.UpdatedAt = now
	r.store.tasks[task.ID] = cloneTask(task)

	return nil
}

// Update writes title, description and done; the stored owner is kept.
func (r *taskRepository) Update(_ context.Context, task *entity.Task) error {
	defer r.store.guard(r.inTx)()

	current, ok := r.store.tasks[task.ID]
	if !ok {
		return repository.ErrTaskNotFound
	}

	updated := cloneTask(current)
	updated.Title = task.Title
	updated.Description = cloneTask(task).Description
	updated.Done = task.Done
	updated.UpdatedAt = r.store.now()
	r.store.tasks[task.ID] = updated
	task.UpdatedAt = updated.UpdatedAt

	return nil
}

func (r *taskRepository) Delete(_ context.Context, id int64) error {
	defer r.store.guard(r.inTx)()

	if _, ok := r.store.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(r.store.tasks, id)

	return nil
}

func (r *taskRepository) DeleteByOwner(_ context.Context, ownerID int64) (int64, error) {
	defer r.store.guard(r.inTx)()

	var removed int64
	for id, task := range r.store.tasks {
		if task.OwnerID == ownerID {
			delete(r.store.tasks, id)
			removed++
		}
	}

	return removed, nil
}
