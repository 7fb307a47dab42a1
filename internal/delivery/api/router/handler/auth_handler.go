package handler

import (
	"log/slog"
	"net/http"
	"time"

	"tasker/internal/delivery/api/response"
	"tasker/internal/delivery/api/validator"
	deliverycontext "tasker/internal/delivery/context"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	tokenTypeBearer = "Bearer"

	forgotPasswordMessage = "If that email is registered, a password reset link has been sent"
	resetPasswordMessage  = "Password has been reset"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AccountUC  usecase.AccountUsecase
	RecoveryUC usecase.RecoveryUsecase
	Logger     *slog.Logger
}

// AuthHandler serves registration, login and password recovery.
type AuthHandler struct {
	accountUC  usecase.AccountUsecase
	recoveryUC usecase.RecoveryUsecase
	logger     *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		accountUC:  params.AccountUC,
		recoveryUC: params.RecoveryUC,
		logger:     params.Logger,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=5,max=48"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=48"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents the request body for starting a reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for completing a reset
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=48"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	ExpiresIn int64            `json:"expires_in"` // seconds
	Account   *AccountResponse `json:"account"`
}

// Register handles account registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.MalformedRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.FieldErrors(err))
	}

	account, err := h.accountUC.Register(c.Request().Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccountResponse(account))
}

// Login exchanges credentials for an access token
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.MalformedRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.FieldErrors(err))
	}

	output, err := h.accountUC.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &LoginResponse{
		Token:     output.Token,
		TokenType: tokenTypeBearer,
		ExpiresIn: int64(output.ExpiresIn / time.Second),
		Account:   toAccountResponse(output.Account),
	})
}

// ForgotPassword starts a password reset. The reply is the same whether or
// not the email is registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.MalformedRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.FieldErrors(err))
	}

	ctx := c.Request().Context()
	if _, err := h.recoveryUC.ForgotPassword(ctx, req.Email); err != nil {
		if !errors.Is(err, domainerrors.ErrAccountNotFound) {
			return errors.WithStack(err)
		}
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("Password reset requested for unknown account")
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": forgotPasswordMessage})
}

// ResetPassword completes a password reset with a previously issued token
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.MalformedRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.FieldErrors(err))
	}

	if _, err := h.recoveryUC.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": resetPasswordMessage})
}
