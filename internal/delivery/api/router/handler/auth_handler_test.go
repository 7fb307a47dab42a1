package handler

import (
	"net/http"
	"testing"
	"time"

	domainerrors "tasker/internal/domain/errors"
	mockUC "tasker/internal/mocks/usecase"
	"tasker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthTestServer(t *testing.T) (*echo.Echo, *mockUC.MockAccountUsecase, *mockUC.MockRecoveryUsecase) {
	t.Helper()

	accountUC := mockUC.NewMockAccountUsecase(t)
	recoveryUC := mockUC.NewMockRecoveryUsecase(t)
	h := NewAuthHandler(AuthHandlerParams{
		AccountUC:  accountUC,
		RecoveryUC: recoveryUC,
		Logger:     discardLogger(),
	})

	e := newTestEcho()
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/forgot-password", h.ForgotPassword)
	e.POST("/auth/reset-password", h.ResetPassword)

	return e, accountUC, recoveryUC
}

func TestAuthHandler_Register(t *testing.T) {
	e, accountUC, _ := newAuthTestServer(t)
	account := newAccount()

	accountUC.EXPECT().
		Register(mock.Anything, usecase.RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "password123",
		}).
		Return(account, nil)

	rec := doRequest(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"password123"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decodeData[AccountResponse](t, rec)
	assert.Equal(t, account.PID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.NotContains(t, rec.Body.String(), "argon2")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuthHandler_Register_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(accountUC *mockUC.MockAccountUsecase)
		wantCode int
		wantErr  string
	}{
		{
			name:     "malformed body",
			body:     `{"username":`,
			wantCode: http.StatusBadRequest,
			wantErr:  "MALFORMED_REQUEST",
		},
		{
			name:     "short username",
			body:     `{"username":"al","email":"alice@example.com","password":"password123"}`,
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "VALIDATION_FAILED",
		},
		{
			name:     "bad email",
			body:     `{"username":"alice","email":"nope","password":"password123"}`,
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "VALIDATION_FAILED",
		},
		{
			name: "email taken",
			body: `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			setup: func(accountUC *mockUC.MockAccountUsecase) {
				accountUC.EXPECT().Register(mock.Anything, mock.Anything).Return(nil, domainerrors.ErrEmailTaken)
			},
			wantCode: http.StatusConflict,
			wantErr:  "EMAIL_TAKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, accountUC, _ := newAuthTestServer(t)
			if tt.setup != nil {
				tt.setup(accountUC)
			}

			rec := doRequest(e, http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, rec).Code)
		})
	}
}

func TestAuthHandler_Register_ValidationDetails(t *testing.T) {
	e, _, _ := newAuthTestServer(t)

	rec := doRequest(e, http.MethodPost, "/auth/register",
		`{"username":"al","email":"alice@example.com","password":"short"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details, ok := decodeError(t, rec).Details.([]any)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestAuthHandler_Login(t *testing.T) {
	e, accountUC, _ := newAuthTestServer(t)
	account := newAccount()

	accountUC.EXPECT().
		Login(mock.Anything, usecase.LoginInput{Email: "alice@example.com", Password: "password123"}).
		Return(&usecase.LoginOutput{Token: "jwt", ExpiresIn: time.Hour, Account: account}, nil)

	rec := doRequest(e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"password123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[LoginResponse](t, rec)
	assert.Equal(t, "jwt", got.Token)
	assert.Equal(t, "Bearer", got.TokenType)
	assert.Equal(t, int64(3600), got.ExpiresIn)
	assert.Equal(t, account.PID, got.Account.ID)
}

func TestAuthHandler_Login_FailuresLookIdentical(t *testing.T) {
	e, accountUC, _ := newAuthTestServer(t)

	accountUC.EXPECT().
		Login(mock.Anything, usecase.LoginInput{Email: "nobody@example.com", Password: "password123"}).
		Return(nil, domainerrors.ErrInvalidCredentials)
	accountUC.EXPECT().
		Login(mock.Anything, usecase.LoginInput{Email: "alice@example.com", Password: "wrong-password"}).
		Return(nil, domainerrors.ErrInvalidCredentials)

	unknown := doRequest(e, http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"password123"}`)
	wrong := doRequest(e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, decodeError(t, unknown), decodeError(t, wrong))
}

func TestAuthHandler_ForgotPassword_DoesNotRevealAccounts(t *testing.T) {
	e, _, recoveryUC := newAuthTestServer(t)

	recoveryUC.EXPECT().
		ForgotPassword(mock.Anything, "alice@example.com").
		Return(&usecase.ResetIssued{Account: newAccount(), Token: "raw-token"}, nil)
	recoveryUC.EXPECT().
		ForgotPassword(mock.Anything, "nobody@example.com").
		Return(nil, errors.Wrap(domainerrors.ErrAccountNotFound, "find account"))

	known := doRequest(e, http.MethodPost, "/auth/forgot-password", `{"email":"alice@example.com"}`)
	unknown := doRequest(e, http.MethodPost, "/auth/forgot-password", `{"email":"nobody@example.com"}`)

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, decodeData[map[string]string](t, known), decodeData[map[string]string](t, unknown))
	assert.NotContains(t, known.Body.String(), "raw-token")
}

func TestAuthHandler_ForgotPassword_InternalError(t *testing.T) {
	e, _, recoveryUC := newAuthTestServer(t)

	recoveryUC.EXPECT().
		ForgotPassword(mock.Anything, "alice@example.com").
		Return(nil, domainerrors.NewDatabaseExecuteError(errors.New("db down"), "set reset token"))

	rec := doRequest(e, http.MethodPost, "/auth/forgot-password", `{"email":"alice@example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "consumed", wantCode: http.StatusOK},
		{name: "unknown token", err: domainerrors.ErrResetTokenNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, recoveryUC := newAuthTestServer(t)

			call := recoveryUC.EXPECT().ResetPassword(mock.Anything, "raw-token", "new-password")
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(newAccount(), nil)
			}

			rec := doRequest(e, http.MethodPost, "/auth/reset-password", `{"token":"raw-token","password":"new-password"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
