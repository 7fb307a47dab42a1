package handler

import (
	"log/slog"
	"net/http"

	"tasker/internal/delivery/api/response"
	"tasker/internal/delivery/api/validator"
	deliverycontext "tasker/internal/delivery/context"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/usecase"
	"tasker/internal/util"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// TaskHandlerParams holds dependencies for TaskHandler, injected by Fx.
type TaskHandlerParams struct {
	fx.In

	TaskUC usecase.TaskUsecase
	Logger *slog.Logger
}

// TaskHandler serves the caller's tasks.
type TaskHandler struct {
	taskUC usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler
func NewTaskHandler(params TaskHandlerParams) *TaskHandler {
	return &TaskHandler{
		taskUC: params.TaskUC,
		logger: params.Logger,
	}
}

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=5,max=32"`
	Description *string `json:"description" validate:"omitempty,max=256"`
}

// UpdateTaskRequest is a partial update. A null description clears it.
type UpdateTaskRequest struct {
	Title       *string               `json:"title" validate:"omitempty,min=5,max=32"`
	Description util.Nullable[string] `json:"description" validate:"omitempty,max=256"`
	Done        *bool                 `json:"done"`
}

// ListTasks returns every task owned by the caller
func (h *TaskHandler) ListTasks(c echo.Context) error {
	ownerPID, err := callerPID(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskUC.List(c.Request().Context(), ownerPID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskResponses(tasks))
}

// CreateTask adds a task owned by the caller
func (h *TaskHandler) CreateTask(c echo.Context) error {
	ownerPID, err := callerPID(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.MalformedRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.FieldErrors(err))
	}

	task, err := h.taskUC.Create(c.Request().Context(), ownerPID, usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toTaskResponse(task))
}

// GetTask returns one of the caller's tasks
func (h *TaskHandler) GetTask(c echo.Context) error {
	ownerPID, err := callerPID(c)
	if err != nil {
		return err
	}
	taskPID, err := taskPIDParam(c)
	if err != nil {
		return err
	}

	task, err := h.taskUC.Get(c.Request().Context(), ownerPID, taskPID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskResponse(task))
}

// UpdateTask applies a partial update to one of the caller's tasks
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	ownerPID, err := callerPID(c)
	if err != nil {
		return err
	}
	taskPID, err := taskPIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.MalformedRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.FieldErrors(err))
	}

	task, err := h.taskUC.Update(c.Request().Context(), ownerPID, taskPID, usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskResponse(task))
}

// DeleteTask removes one of the caller's tasks
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	ownerPID, err := callerPID(c)
	if err != nil {
		return err
	}
	taskPID, err := taskPIDParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.taskUC.Delete(ctx, ownerPID, taskPID)
	if err != nil {
		return errors.WithStack(err)
	}

	deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("Task deleted",
		slog.String("title", task.Title),
		slog.Int64("owner_id", task.OwnerID),
	)

	return c.NoContent(http.StatusNoContent)
}

// taskPIDParam parses the :id path segment. An id that is not a UUID
// cannot name any task.
func taskPIDParam(c echo.Context) (uuid.UUID, error) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrTaskNotFound
	}

	return pid, nil
}
