// Package handler contains the echo handlers behind the API routes.
package handler

import (
	"time"

	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AccountResponse is the public view of an account. Storage ids, password
// digests and reset state never leave the service.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAccountResponse(account *entity.Account) *AccountResponse {
	return &AccountResponse{
		ID:        account.PID,
		Username:  account.Username,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

func toTaskResponse(task *entity.Task) *TaskResponse {
	return &TaskResponse{
		ID:          task.PID,
		Title:       task.Title,
		Description: task.Description,
		Done:        task.Done,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toTaskResponses(tasks []*entity.Task) []*TaskResponse {
	out := make([]*TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}

	return out
}

// callerPID returns the account set by the auth middleware.
func callerPID(c echo.Context) (uuid.UUID, error) {
	pid, ok := deliverycontext.GetAccountPID(c)
	if !ok {
		return uuid.Nil, domainerrors.ErrInvalidToken
	}

	return pid, nil
}
