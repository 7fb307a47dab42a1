package handler

import (
	"log/slog"
	"net/http"

	"tasker/internal/delivery/api/response"
	"tasker/internal/delivery/api/validator"
	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// AccountHandler serves the caller's own account.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

// UpdateAccountRequest is a partial update; omitted fields are kept.
type UpdateAccountRequest struct {
	Username *string `json:"username" validate:"omitempty,min=5,max=48"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=48"`
}

// GetAccount returns the caller's profile
func (h *AccountHandler) GetAccount(c echo.Context) error {
	pid, err := callerPID(c)
	if err != nil {
		return err
	}

	account, err := h.accountUC.Resolve(c.Request().Context(), pid)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(account))
}

// UpdateAccount changes the caller's username, email or password
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	pid, err := callerPID(c)
	if err != nil {
		return err
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.MalformedRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.FieldErrors(err))
	}

	ctx := c.Request().Context()
	account, err := h.accountUC.Resolve(ctx, pid)
	if err != nil {
		return errors.WithStack(err)
	}

	updated, err := h.accountUC.Update(ctx, account.ID, usecase.UpdateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(updated))
}

// DeleteAccount removes the caller and every task they own
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	pid, err := callerPID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	account, err := h.accountUC.Resolve(ctx, pid)
	if err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.accountUC.Remove(ctx, account.ID); err != nil {
		return errors.WithStack(err)
	}

	deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("Account removed",
		slog.String("username", account.Username),
	)

	return c.NoContent(http.StatusNoContent)
}
