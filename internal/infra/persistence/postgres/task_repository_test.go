package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
)

func TestTaskRepository_FindOwnedByPID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	pid := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE pid = $1 AND user_id = $2`)).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(taskRow(11, pid.String(), 3, "Buy milk", "two litres", false)...))

	task, err := repo.FindOwnedByPID(context.Background(), pid, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(11), task.ID)
	assert.Equal(t, int64(3), task.OwnerID)
	require.NotNil(t, task.Description)
	assert.Equal(t, "two litres", *task.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_FindOwnedByPID_ForeignIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE pid = $1 AND user_id = $2`)).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	task, err := repo.FindOwnedByPID(context.Background(), uuid.New(), 4)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRepository_FindByPID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	pid := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE pid = $1`)).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(taskRow(12, pid.String(), 8, "Walk dog", nil, true)...))

	task, err := repo.FindByPID(context.Background(), pid)
	require.NoError(t, err)
	assert.Equal(t, int64(8), task.OwnerID)
	assert.Nil(t, task.Description)
	assert.True(t, task.Done)
}

func TestTaskRepository_ListByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE user_id = $1 ORDER BY id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(taskRow(1, uuid.NewString(), 3, "First task", nil, false)...).
			AddRow(taskRow(2, uuid.NewString(), 3, "Second task", nil, true)...))

	tasks, err := repo.ListByOwner(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "First task", tasks[0].Title)
	assert.Equal(t, "Second task", tasks[1].Title)
}

func TestTaskRepository_ListByOwner_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE user_id = $1`)).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	tasks, err := repo.ListByOwner(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tasks"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))

	task := &entity.Task{PID: uuid.New(), OwnerID: 3, Title: "Buy milk"}
	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, int64(77), task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create_Violations(t *testing.T) {
	tests := []struct {
		name string
		err  *pgconn.PgError
		want error
	}{
		{
			name: "missing owner",
			err:  &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: constraintTasksUser},
			want: domainerrors.ErrAccountNotFound,
		},
		{
			name: "title check",
			err:  &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "tasks_title_length"},
			want: domainerrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewTaskRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tasks"`)).WillReturnError(tt.err)

			err := repo.Create(context.Background(), &entity.Task{PID: uuid.New(), OwnerID: 3, Title: "x"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTaskRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tasks" SET "title"=$1,"description"=$2,"done"=$3,"updated_at"=$4 WHERE`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	task := &entity.Task{ID: 11, OwnerID: 3, Title: "Buy oat milk", Done: true}
	require.NoError(t, repo.Update(context.Background(), task))
	assert.False(t, task.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE id = $1`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 11), repository.ErrTaskNotFound)
}

func TestTaskRepository_DeleteByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE user_id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	removed, err := repo.DeleteByOwner(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
}
